// main.go - entry point for the tricore multi-core console emulator
//
// License: GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zaynotley/tricore/internal/core"
	"github.com/zaynotley/tricore/internal/gb"
	"github.com/zaynotley/tricore/internal/gba"
	"github.com/zaynotley/tricore/internal/romdetect"
	"github.com/zaynotley/tricore/internal/snes"
)

const nativeSampleRate = 48000

// gbLogoFirstByte is the first byte of the fixed Nintendo logo bitmap every
// valid GB/GBC header carries at $0104, cheap enough to check without a
// dedicated gb-side scoring function.
const gbLogoFirstByte = 0xCE

func detectPlatform(romPath string, data []byte) string {
	switch strings.ToLower(filepath.Ext(romPath)) {
	case ".gb", ".gbc":
		return "gb"
	case ".gba":
		return "gba"
	case ".sfc", ".smc":
		return "snes"
	}
	// No recognized extension: fall back to header sniffing.
	if len(data) > 0x104 && data[0x104] == gbLogoFirstByte {
		return "gb"
	}
	if romdetect.GBAHeaderScore(data) > 0 {
		return "gba"
	}
	return "snes"
}

func newPlatform(kind string) core.Platform {
	switch kind {
	case "gb":
		return gb.NewPlatform(nativeSampleRate)
	case "gba":
		return gba.NewPlatform(nativeSampleRate)
	case "snes":
		return snes.NewPlatform()
	}
	return nil
}

func main() {
	romPath := flag.String("rom", "", "path to the ROM image to load")
	platformFlag := flag.String("platform", "", "force the core to use: gb, gba, or snes (default: guess from file extension)")
	headless := flag.Bool("headless", false, "run without a window, using the terminal preview frontend")
	debug := flag.Bool("debug", false, "print underrun and rate-adjustment diagnostics every 60 frames")
	savePath := flag.String("save", "", "battery-save file path (default: <rom>.sav)")
	statePath := flag.String("state", "", "save-state file to load at startup")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "tricore: -rom is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tricore: failed to read ROM: %v\n", err)
		os.Exit(1)
	}

	kind := *platformFlag
	if kind == "" {
		kind = detectPlatform(*romPath, data)
	}
	plat := newPlatform(kind)
	if plat == nil {
		fmt.Fprintf(os.Stderr, "tricore: unknown platform %q\n", kind)
		os.Exit(1)
	}

	if err := plat.LoadROM(data); err != nil {
		fmt.Fprintf(os.Stderr, "tricore: ROM rejected: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("tricore: loaded %s as %s\n", *romPath, kind)

	if *savePath == "" {
		*savePath = *romPath + ".sav"
	}
	if plat.HasBatterySave() {
		if saved, err := os.ReadFile(*savePath); err == nil {
			if err := plat.SetBatterySaveData(saved); err != nil {
				fmt.Fprintf(os.Stderr, "tricore: failed to load battery save: %v\n", err)
			}
		}
	}

	if *statePath != "" {
		blob, err := os.ReadFile(*statePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tricore: failed to read save state: %v\n", err)
			os.Exit(1)
		}
		if err := plat.LoadState(blob); err != nil {
			fmt.Fprintf(os.Stderr, "tricore: save state rejected: %v\n", err)
			os.Exit(1)
		}
	}

	session := &Session{
		platform: plat,
		savePath: *savePath,
		debug:    *debug,
		headless: *headless,
		romPath:  *romPath,
		layout:   plat.ControllerLayout(),
	}

	if err := session.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tricore: %v\n", err)
		session.persistBatterySave()
		os.Exit(1)
	}
	session.persistBatterySave()
}
