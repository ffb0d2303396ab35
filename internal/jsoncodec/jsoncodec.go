// Package jsoncodec centralises JSON encoding so every component shares
// one sonic configuration.
package jsoncodec

import "github.com/bytedance/sonic"

var defaultConfig = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}
