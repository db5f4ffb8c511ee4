package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCallID gera um identificador curto para correlacionar as tentativas
// de uma mesma chamada nos logs de retry.
func GenerateCallID() string {
	id, err := gonanoid.Generate(characters, 8)
	if err != nil {
		return "--------"
	}
	return id
}
