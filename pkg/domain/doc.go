// Package domain contains the records that flow through the pipeline. They are
// free of infrastructure concerns so the finder, announcer and adapters can share them.
package domain
