// Copyright 2018 Zanicar. All rights reserved.
// Utilizes a BSD-3 license. Refer to the included LICENSE file for details.

// Command stegano is a thin CLI adapter around the pointer-chain
// engine: it reads files, calls package stegano, and writes files. It
// contains no embedding logic of its own.
package main

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"hermannm.dev/devlog"

	"github.com/marsnebulasoup/cs4379h-group4-securesteg"
	"github.com/marsnebulasoup/cs4379h-group4-securesteg/png"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

var logLevel slog.LevelVar

func main() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	app := cli.NewApp()
	app.Name = "stegano"
	app.Usage = "pointer-chain image steganography"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose, v", Usage: "verbose logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "conceal",
			Usage: "embed a message into a cover image",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "data", Usage: "path to the plaintext message file"},
				cli.StringFlag{Name: "cover", Usage: "path to the cover image (PNG or JPEG)"},
				cli.StringFlag{Name: "out", Usage: "path to write the stego PNG"},
				cli.StringFlag{Name: "key-out", Usage: "path to write the serialised key (default: stdout)"},
				cli.UintFlag{Name: "alias-count, t", Value: 32, Usage: "alias count t"},
				cli.BoolFlag{Name: "zip, z", Usage: "zlib-compress the message before encryption"},
			},
			Action: conceal,
		},
		{
			Name:  "reveal",
			Usage: "recover a message from a stego image",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in", Usage: "path to the stego PNG"},
				cli.StringFlag{Name: "key", Usage: "the serialised key"},
				cli.StringFlag{Name: "key-file", Usage: "path to a file containing the serialised key"},
				cli.StringFlag{Name: "out", Usage: "path to write the recovered message"},
				cli.BoolFlag{Name: "zip, z", Usage: "zlib-decompress the recovered message"},
			},
			Action: reveal,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("stegano failed", "error", err)
		os.Exit(1)
	}
}

func conceal(c *cli.Context) error {
	if c.GlobalBool("verbose") {
		logLevel.Set(slog.LevelDebug)
	}

	data, err := os.ReadFile(c.String("data"))
	if err != nil {
		return errors.Wrap(err, "read data file")
	}

	coverFh, err := os.Open(c.String("cover"))
	if err != nil {
		return errors.Wrap(err, "open cover image")
	}
	defer coverFh.Close()

	grid, err := png.Decode(coverFh)
	if err != nil {
		return errors.Wrap(err, "decode cover image")
	}

	if c.Bool("zip") {
		zdata, err := compress(data)
		if err != nil {
			return errors.Wrap(err, "compress message")
		}
		slog.Debug("compressed message", "before", len(data), "after", len(zdata))
		data = zdata
	}

	opts := stegano.Options{
		AliasCount: uint16(c.Uint("alias-count")),
		Progress: func(fraction float64, phase string) {
			slog.Debug("progress", "phase", phase, "fraction", fraction)
		},
	}

	serializedKey, stats, err := stegano.Encode(grid, data, opts)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	slog.Info("encoded",
		"total_pixels", stats.TotalPixels,
		"chain_positions", stats.ChainPositions,
		"modified_positions", stats.ModifiedPositions,
		"modified_channels", stats.ModifiedChannels,
		"percent_modified", stats.PercentModified,
	)

	outFh, err := os.Create(c.String("out"))
	if err != nil {
		return errors.Wrap(err, "create output image")
	}
	defer outFh.Close()
	if err := png.Encode(outFh, grid); err != nil {
		return errors.Wrap(err, "write stego image")
	}

	if keyOut := c.String("key-out"); keyOut != "" {
		if err := os.WriteFile(keyOut, []byte(serializedKey+"\n"), 0600); err != nil {
			return errors.Wrap(err, "write key file")
		}
	} else {
		fmt.Println(serializedKey)
	}

	return nil
}

func reveal(c *cli.Context) error {
	if c.GlobalBool("verbose") {
		logLevel.Set(slog.LevelDebug)
	}

	serializedKey := c.String("key")
	if serializedKey == "" {
		if kf := c.String("key-file"); kf != "" {
			b, err := os.ReadFile(kf)
			if err != nil {
				return errors.Wrap(err, "read key file")
			}
			serializedKey = string(bytes.TrimSpace(b))
		}
	}
	if serializedKey == "" {
		return errors.New("reveal requires -key or -key-file")
	}

	inFh, err := os.Open(c.String("in"))
	if err != nil {
		return errors.Wrap(err, "open stego image")
	}
	defer inFh.Close()

	grid, err := png.Decode(inFh)
	if err != nil {
		return errors.Wrap(err, "decode stego image")
	}

	opts := stegano.Options{
		Progress: func(fraction float64, phase string) {
			slog.Debug("progress", "phase", phase, "fraction", fraction)
		},
	}

	data, err := stegano.Decode(grid, serializedKey, opts)
	if err != nil {
		return errors.Wrap(err, "decode")
	}

	if c.Bool("zip") {
		pdata, err := decompress(data)
		if err != nil {
			return errors.Wrap(err, "decompress message")
		}
		data = pdata
	}

	return os.WriteFile(c.String("out"), data, 0644)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
