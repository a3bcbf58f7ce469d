/*
DESCRIPTION
  ipa-sim is a synthetic driver that exercises an ipa.Orchestrator end to
  end against in-memory statistics buffers, for manual smoke testing of the
  3A control loop without real ISP hardware.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main runs the ipa-sim synthetic control-loop driver.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/ipa"
	"github.com/ausocean/ipa/config"
	"github.com/ausocean/ipa/metrics"
	"github.com/ausocean/ipa/parambuf"
	"github.com/ausocean/ipa/sensor"
	"github.com/ausocean/ipa/statsbuf"
	"github.com/ausocean/utils/logging"
)

const version = "v0.1.0"

// Logging configuration, following the same lumberjack rotation policy as
// the production netsender client.
const (
	logPath      = "ipa-sim.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
	logVerbosity = logging.Debug
	logSuppress  = false
)

// session is the ipa-sim scenario config, loaded from a TOML file.
type session struct {
	Frames       int     `toml:"frames"`
	Scene        string  `toml:"scene"` // "grey" or "red_cast"
	StreamWidth  int     `toml:"stream_width"`
	StreamHeight int     `toml:"stream_height"`
	BdsWidth     int     `toml:"bds_width"`
	BdsHeight    int     `toml:"bds_height"`
	MetricsAddr  string  `toml:"metrics_addr"`
	AeEnable     bool    `toml:"ae_enable"`
	AwbEnable    bool    `toml:"awb_enable"`
}

func defaultSession() session {
	return session{
		Frames:       30,
		Scene:        "grey",
		StreamWidth:  1280,
		StreamHeight: 720,
		BdsWidth:     1280,
		BdsHeight:    720,
		MetricsAddr:  ":9108",
		AeEnable:     true,
		AwbEnable:    true,
	}
}

func main() {
	showVersion := flag.Bool("version", false, "show version")
	configPath := flag.String("config", "", "path to a session TOML config (optional)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)

	sess := defaultSession()
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &sess); err != nil {
			log.Fatal("could not decode session config", "error", err.Error())
		}
	}

	log.Info("starting ipa-sim", "version", version, "scene", sess.Scene, "frames", sess.Frames)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	go serveMetrics(sess.MetricsAddr, reg, log)

	orc, err := ipa.Init(log, statsbuf.RevisionV2)
	if err != nil {
		log.Fatal("init failed", "error", err.Error())
	}
	orc.SetMetrics(m)

	gainHelper := sensor.NewHelper(16, sensor.Range{Min: 0, Max: 240})
	err = orc.Configure(ipa.ConfigureParams{
		StreamSize:    ipa.Size{Width: sess.StreamWidth, Height: sess.StreamHeight},
		BdsOutputSize: ipa.Size{Width: sess.BdsWidth, Height: sess.BdsHeight},
		ControlRanges: map[sensor.ControlID]sensor.Range{
			sensor.Exposure:     {Min: 1, Max: 2000},
			sensor.AnalogueGain: {Min: 0, Max: 240},
		},
		ControlDelays: map[sensor.ControlID]int{
			sensor.Exposure:     2,
			sensor.AnalogueGain: 1,
		},
		GainHelper:   gainHelper,
		LineDuration: 16800 * time.Nanosecond,
		MinShutter:   100 * time.Microsecond,
		MaxShutter:   33 * time.Millisecond,
		AfRange:      &sensor.Range{Min: 0, Max: 1023},
	})
	if err != nil {
		log.Fatal("configure failed", "error", err.Error())
	}

	orc.ApplyConfig(&config.Config{
		Logger:    log,
		AeEnable:  sess.AeEnable,
		AwbEnable: sess.AwbEnable,
	})

	run(orc, sess, log)
}

func run(orc *ipa.Orchestrator, sess session, log logging.Logger) {
	for i := 0; i < sess.Frames; i++ {
		frameID := uint64(i)
		orc.Admit(frameID)

		statsBuf := sceneBuf(sess.Scene, orc)

		if err := orc.OnStatsReady(frameID, statsBuf, 33*time.Millisecond); err != nil {
			log.Warning("stats processing error", "frame", frameID, "error", err.Error())
		}

		paramBuf := make([]byte, parambuf.Size)
		if err := orc.OnFillParams(frameID, paramBuf); err != nil {
			log.Warning("param fill error", "frame", frameID, "error", err.Error())
		}
		orc.OnParamsDequeued(frameID)

		orc.FrameStart(uint64(10 + i))

		if md, ok := orc.Metadata(frameID); ok {
			log.Info("frame processed", "frame", frameID, "ae_locked", md.AeLocked,
				"colour_temp", md.ColourTemperature, "af_mode", md.AfMode.String(),
				"af_scan_state", md.AfScanState.String())
		}
	}
}

// sceneBuf returns a synthetic stats buffer sized to the Orchestrator's
// resolved grid.
func sceneBuf(scene string, orc *ipa.Orchestrator) []byte {
	cellCount := orc.CellCount()
	switch scene {
	case "red_cast":
		return redCastScene(cellCount)
	default:
		return greyScene(cellCount)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warning("metrics server stopped", "error", err.Error())
	}
}
