package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"seat-reserve-cli/model"
)

// BundledSource names the embedded dataset in logs and caches.
const BundledSource = "bundled:Seats.json"

//go:embed data/Seats.json
var bundledSeats []byte

// EnvelopeError reports a dataset whose envelope carries a non-2xx status code.
type EnvelopeError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("dataset %s: status %d: %s", e.Source, e.StatusCode, e.Message)
}

// LoadBundled decodes the dataset shipped with the binary.
func LoadBundled() ([]model.Seat, error) {
	return Decode(bundledSeats, BundledSource)
}

// LoadFile decodes a dataset file from disk.
func LoadFile(path string) ([]model.Seat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(data, path)
}

// Decode parses a dataset envelope. source only labels errors.
func Decode(data []byte, source string) ([]model.Seat, error) {
	var res model.SeatResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", source, err)
	}
	return seatsFromResponse(res, source)
}

func seatsFromResponse(res model.SeatResponse, source string) ([]model.Seat, error) {
	// A missing status code is treated as success; some exports omit it.
	if res.StatusCode != 0 && (res.StatusCode < 200 || res.StatusCode >= 300) {
		return nil, &EnvelopeError{Source: source, StatusCode: res.StatusCode, Message: res.Message}
	}
	return res.Result, nil
}
