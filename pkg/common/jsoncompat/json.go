// Package jsoncompat routes JSON through sonic configured to behave like encoding/json.
package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

// Decode reads all of r and unmarshals it into v.
func Decode(r io.Reader, v any) error {
	return api.NewDecoder(r).Decode(v)
}
