//go:build headless

package main

import (
	"errors"
	"time"
)

func openAudio(int, time.Duration) (audioOutput, error) {
	return nil, errors.New("live: built without audio output (headless tag)")
}
