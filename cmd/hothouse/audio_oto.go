//go:build !headless

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func openAudio(sampleRate int, latency time.Duration) (audioOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("live: audio device: %w", err)
	}
	<-ready
	return &otoOutput{ctx: ctx}, nil
}

func (o *otoOutput) Play(r io.Reader) error {
	o.player = o.ctx.NewPlayer(r)
	o.player.Play()
	return nil
}

func (o *otoOutput) Close() error {
	if o.player == nil {
		return nil
	}
	return o.player.Close()
}
