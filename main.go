package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/icexin/gocraft-holo/config"
	"github.com/icexin/gocraft-holo/hologram"
	"github.com/icexin/gocraft-holo/proto"
)

var (
	listenAddr    = flag.String("l", ":8421", "listen address")
	wsAddr        = flag.String("ws", "", "websocket listen address, disabled when empty")
	configPath    = flag.String("config", "", "hologram definition file, reloaded on change")
	compress      = flag.Int("compress", proto.DefaultCompressionThreshold, "compression threshold in bytes, -1 disables compression")
	demo          = flag.Bool("demo", false, "show the click counter demo hologram at 0,70,0")
	spawnDistance = flag.Float64("spawn-distance", 48, "show holograms within this distance of a viewer, 0 for everywhere")
)

func main() {
	flag.Parse()

	store, err := InitStore()
	if err != nil {
		log.Fatal(err)
	}
	l, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		log.Fatal(err)
	}

	server := NewServer(*compress, store)
	var mutex sync.Mutex
	pool := hologram.NewPool("world",
		hologram.SpawnDistance(*spawnDistance),
		hologram.PoolLogger(log.Default()),
	)
	ids := hologram.NewRandomIDAllocator()
	hologramService := NewHologramService(server, &mutex, pool, ids)
	playerService := NewPlayerService(server, &mutex, pool)
	server.RegisterService("Hologram", hologramService)
	server.RegisterService("Player", playerService)

	if *configPath != "" {
		f, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		hologramService.apply(f)
		w, err := config.Watch(*configPath, log.Default(), hologramService.apply)
		if err != nil {
			log.Fatal(err)
		}
		defer w.Close()
	}
	if *demo {
		err := hologramService.startDemo(hologram.Loc(0, 70, 0), time.Second)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *wsAddr != "" {
		go func() {
			log.Fatal(http.ListenAndServe(*wsAddr, server))
		}()
	}
	log.Printf("listening on %s", l.Addr())
	log.Fatal(server.Serve(l))
}
