package source

import (
	"bytes"
	_ "embed"
)

//go:embed sample.toml
var sampleTOML []byte

// Sample returns the built-in demo household.
func Sample() Document {
	doc, err := Parse(bytes.NewReader(sampleTOML))
	if err != nil {
		panic("source: embedded sample is invalid: " + err.Error())
	}
	return doc
}

// SampleTOML returns the raw sample file, useful as a template.
func SampleTOML() []byte {
	return bytes.Clone(sampleTOML)
}
