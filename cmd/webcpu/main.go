// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jemendoz/WebCPU/config"
	"github.com/jemendoz/WebCPU/cpu"
	"github.com/jemendoz/WebCPU/emulator"
	"github.com/jemendoz/WebCPU/logs"
	"github.com/jemendoz/WebCPU/server"
)

func main() {
	var conf string
	var assemble bool
	var maxSteps int
	var verbose bool
	var listen string

	flag.StringVar(&conf, "c", "", ".cue configuration file")
	flag.BoolVar(&assemble, "a", false, "Read the program with the assembler syntax")
	flag.IntVar(&maxSteps, "n", 0, "Maximum steps to run, 0 for unbounded")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&listen, "l", "", "Serve HTTP on this address instead of running a program")

	flag.Parse()

	var paths []string
	if len(conf) != 0 {
		paths = append(paths, conf)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("%v: %v", conf, err)
	}

	// Flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "a":
			cfg.Assemble = assemble
		case "n":
			cfg.MaxSteps = maxSteps
		case "v":
			cfg.Verbose = verbose
		case "l":
			cfg.Listen = listen
		}
	})

	level, err := logs.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logs.New(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emu := emulator.NewEmulator()
	emu.Verbose = cfg.Verbose
	emu.Logger = logger
	emu.MaxSteps = cfg.MaxSteps

	if len(cfg.Listen) != 0 {
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}
		srv := server.NewServer(emu)
		srv.Assemble = cfg.Assemble
		srv.Logger = logger
		err = srv.ListenAndServe(ctx, cfg.Listen, cfg.MaxConns)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [flags] program.txt|-", os.Args[0])
	}

	input := flag.Arg(0)
	var inf io.Reader = os.Stdin
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer file.Close()
		inf = file
	}

	var prog *cpu.Program
	if cfg.Assemble {
		asm := &cpu.Assembler{Verbose: cfg.Verbose, Logger: logger}
		prog, err = asm.Parse(inf)
	} else {
		prog, err = cpu.ReadProgram(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	emu.Load(prog)
	steps, err := emu.Run(ctx)
	fmt.Print(emu.Machine.String())
	if err != nil {
		log.Fatalf("%v: after %d steps: %v", input, steps, err)
	}
}
