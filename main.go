package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/user"

	"neuro/driver"
	"neuro/internal/buildcache"
	"neuro/internal/clog"
	"neuro/repl"
)

func main() {
	emitIR := flag.Bool("ir", false, "compile to textual IR instead of interpreting")
	cacheDir := flag.String("cache-dir", "", "directory for the on-disk build cache (empty disables persistence)")
	debug := flag.Bool("debug", false, "log compiler stages at debug level")
	flag.Parse()

	level := slog.LevelError
	if *debug {
		level = slog.LevelDebug
	}
	clog.Configure(os.Stderr, level)

	cache, err := buildcache.New(128, *cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing build cache: %s\n", err)
		os.Exit(1)
	}
	d := driver.New(cache)

	// 1. Script Mode: go run . myfile.nr
	if args := flag.Args(); len(args) > 0 {
		runFile(d, args[0], *emitIR)
		return
	}

	// 2. REPL Mode: go run .
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}

	fmt.Printf("Hello %s! Welcome to the NEURO programming language.\n", currentUser.Username)
	fmt.Println("Type your commands below (or 'go run . <file>' to execute a script).")

	repl.Start(os.Stdin, os.Stdout)
}

func runFile(d *driver.Driver, filename string, emitIR bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}

	res, err := d.Run(string(data), filename, emitIR)
	for _, dg := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, dg.Error())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if emitIR {
		fmt.Print(res.IR)
		return
	}

	for _, line := range res.Output {
		fmt.Println(line)
	}
	os.Exit(res.ExitCode)
}
