package main

import (
	"flag"
	"log"
	"os"

	"github.com/gordonklaus/portaudio"
	"github.com/mrdg/grain/audio"
)

func main() {
	var (
		file       = flag.String("file", "", "sample file to load on startup (wav/mp3/ogg)")
		sampleRate = flag.Int("rate", 44100, "stream sample rate")
		bufferSize = flag.Int("buffer", 512, "stream buffer size in frames")
		seed       = flag.Int64("seed", 0, "randomization seed, 0 for nondeterministic")
	)
	flag.Parse()

	if err := portaudio.Initialize(); err != nil {
		log.Fatal(err)
	}
	defer portaudio.Terminate()

	props := audio.NewProps()
	engine := audio.NewEngine(props, *sampleRate)
	if *seed != 0 {
		engine.Seed(*seed)
	}

	sink, err := audio.NewSink(engine, *sampleRate, *bufferSize)
	if err != nil {
		log.Fatal(err)
	}
	defer sink.Stop()

	if *file != "" {
		if err := engine.LoadFile(*file); err != nil {
			log.Fatal(err)
		}
	}

	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}

	env := &env{engine: engine, out: os.Stdout}
	if err := repl(env); err != nil {
		log.Fatal(err)
	}
}
