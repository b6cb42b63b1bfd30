package fmp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

func readAll(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeMessage reports whether the payload is FMP's message object rather
// than a quote list.
func decodeMessage(raw []byte) (apiMessage, bool) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return apiMessage{}, false
	}
	var msg apiMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return apiMessage{}, false
	}
	return msg, msg.ErrorMessage != "" || msg.Information != ""
}

func decodeQuotes(raw []byte) ([]quote, error) {
	quotes := make([]quote, 0)
	if err := json.Unmarshal(raw, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}
