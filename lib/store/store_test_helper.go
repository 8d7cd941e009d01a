package store

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

func createRandomPayload() []byte {
	var size = 1 + gofakeit.Number(0, 255)
	var payload = make([]byte, size)
	gofakeit.Slice(&payload)
	return payload
}

func createRandomRevision() uuid.UUID {
	return uuid.New()
}
