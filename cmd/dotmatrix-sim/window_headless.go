//go:build headless

package main

import (
	"context"
	"errors"

	"github.com/BeatGlow/dotmatrix/panel"
)

func runWindow(context.Context, *panel.Panel, int) error {
	return errors.New("window output is not available in headless builds")
}
