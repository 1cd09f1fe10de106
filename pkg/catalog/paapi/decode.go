package paapi

import (
	"productbot/pkg/catalog"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// obj decodes an object field by field, treating null as an empty object.
func obj(d *jx.Decoder, f func(d *jx.Decoder, key string) error) error {
	switch d.Next() {
	case jx.Null:
		return d.Null()
	case jx.Object:
		return d.Obj(f)
	default:
		return d.Skip()
	}
}

// arr decodes an array element by element, treating null as an empty array.
func arr(d *jx.Decoder, f func(d *jx.Decoder) error) error {
	switch d.Next() {
	case jx.Null:
		return d.Null()
	case jx.Array:
		return d.Arr(f)
	default:
		return d.Skip()
	}
}

// str decodes an optional string. Null, empty strings and values of any
// other type yield nil.
func str(d *jx.Decoder) (*string, error) {
	if d.Next() != jx.String {
		return nil, d.Skip()
	}
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}

	return &s, nil
}

// field descends into the value at key and skips every other key.
func field(key string, f func(d *jx.Decoder) error) func(d *jx.Decoder, k string) error {
	return func(d *jx.Decoder, k string) error {
		if k != key {
			return d.Skip()
		}

		return f(d)
	}
}

// decodeSearchItems extracts SearchResult.Items from a SearchItems response.
func decodeSearchItems(b []byte) ([]catalog.Item, error) {
	var items []catalog.Item
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return nil, errors.New("response is not a JSON object")
	}

	err := d.Obj(field("SearchResult", func(d *jx.Decoder) error {
		return obj(d, field("Items", func(d *jx.Decoder) error {
			return arr(d, func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return errors.Wrapf(err, "decode item %d", len(items))
				}
				items = append(items, item)

				return nil
			})
		}))
	}))
	if err != nil {
		return nil, errors.Wrap(err, "decode SearchResult")
	}

	return items, nil
}

// decodeItem reads one item. Only ASIN, DetailPageURL, ItemInfo.Title.DisplayValue
// and Offers.Listings[0].Price.DisplayAmount are kept.
func decodeItem(d *jx.Decoder) (catalog.Item, error) {
	var item catalog.Item
	err := obj(d, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "ASIN":
			var id *string
			if id, err = str(d); id != nil {
				item.ID = *id
			}
		case "DetailPageURL":
			item.URL, err = str(d)
		case "ItemInfo":
			err = obj(d, field("Title", func(d *jx.Decoder) error {
				return obj(d, field("DisplayValue", func(d *jx.Decoder) (err error) {
					item.Title, err = str(d)

					return err
				}))
			}))
		case "Offers":
			err = obj(d, field("Listings", func(d *jx.Decoder) error {
				first := true

				return arr(d, func(d *jx.Decoder) error {
					if !first {
						return d.Skip()
					}
					first = false

					return obj(d, field("Price", func(d *jx.Decoder) error {
						return obj(d, field("DisplayAmount", func(d *jx.Decoder) (err error) {
							item.Price, err = str(d)

							return err
						}))
					}))
				})
			}))
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}

		return nil
	})

	return item, err
}

// decodeAPIError returns the code and message of the first entry of the
// Errors envelope. A body that is not an error envelope yields empty strings.
func decodeAPIError(b []byte) (code, message string) {
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return "", ""
	}

	first := true
	_ = d.Obj(field("Errors", func(d *jx.Decoder) error {
		return arr(d, func(d *jx.Decoder) error {
			if !first {
				return d.Skip()
			}
			first = false

			return obj(d, func(d *jx.Decoder, key string) error {
				s, err := str(d)
				if s == nil || err != nil {
					return err
				}
				switch key {
				case "Code":
					code = *s
				case "Message":
					message = *s
				}

				return nil
			})
		})
	}))

	return code, message
}
