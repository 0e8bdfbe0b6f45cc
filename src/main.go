package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/aozaki/polysynth/src/synth"
	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"
)

func main() {
	presetDir := flag.String("presets", "presets", "preset directory")
	noMidi := flag.Bool("no-midi", false, "disable MIDI input")
	noAudio := flag.Bool("no-audio", false, "do not open the audio device (offline rendering only)")
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := synth.NewEngine(*presetDir)
	defer engine.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if !*noAudio {
		g.Go(func() error {
			return engine.Start(ctx)
		})
	}
	if !*noMidi {
		g.Go(func() error {
			for data := range synth.ListenToMidiIn(ctx) {
				engine.AddMidiEvent(data)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return runREPL(ctx, engine)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func runREPL(ctx context.Context, engine *synth.Engine) error {
	rl, err := readline.New("synth> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := evalLine(engine, fields); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func evalLine(engine *synth.Engine, fields []string) error {
	switch fields[0] {
	case "state":
		fmt.Println(string(engine.ToJSON()))
		return nil
	case "meter":
		s := engine.GetState()
		fmt.Printf("voices: %d  reduction: %.1f dB\n", s.ActiveVoices, s.ReductionDb)
		return nil
	case "presets":
		names, err := engine.ListPresets()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	case "render":
		if len(fields) < 3 {
			return fmt.Errorf("usage: render <file> <seconds> [note...]")
		}
		seconds, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return err
		}
		for _, arg := range fields[3:] {
			note, err := strconv.ParseInt(arg, 10, 32)
			if err != nil {
				return err
			}
			if err := engine.NoteOn(int(note), 100); err != nil {
				return err
			}
		}
		if err := engine.RenderToWAV(fields[1], seconds); err != nil {
			return err
		}
		engine.StopAll()
		fmt.Printf("wrote %s\n", fields[1])
		return nil
	default:
		// note_on, note_off, stop, set, preset_load, preset_save
		engine.CommandCh <- fields
		return nil
	}
}
