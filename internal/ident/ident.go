package ident

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DeliveryJobPrefix = "del_"
	Alphabet          = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewDeliveryJobID creates a random prefixed identifier for a delivery job
// using NanoID.
func NewDeliveryJobID() (string, error) {
	id, err := gonanoid.Generate(Alphabet, 21)
	if err != nil {
		return "", err
	}
	return DeliveryJobPrefix + id, nil
}
