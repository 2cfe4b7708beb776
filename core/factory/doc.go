// Package factory builds pluggable modules (record sinks, metrics sinks) from
// `{type, conf}` declarations. Typed factories decode conf strictly into a
// settings struct, validate it and hand it to the constructor:
//
//	records.RegisterSink("jsonl", factory.Typed(func(c fileConf) (records.Sink, error) {
//	    return records.NewJSONLStore(c.Path)
//	}))
//	sink, err := records.NewSink(cfg.Records)
package factory
