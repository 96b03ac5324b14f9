package utils

import (
	"encoding/json"
	"io"
)

func JsonDecode[T any](body io.ReadCloser) T {
	var value T
	json.NewDecoder(body).Decode(&value)
	return value
}
