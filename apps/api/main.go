package main

import (
	"context"
	"expvar"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/homework/apps/api/echo"
	"github.com/trezcool/homework/assets"
	"github.com/trezcool/homework/core"
	"github.com/trezcool/homework/core/homework"
	"github.com/trezcool/homework/core/pageloader"
	"github.com/trezcool/homework/core/view"
	"github.com/trezcool/homework/services/canvas"
	logsvc "github.com/trezcool/homework/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	if err := conf.Validate(validate); err != nil {
		logger.Fatal(fmt.Sprintf("loading config: %v", err), err)
	}

	// set up services
	client, err := canvas.NewClientFromConfig(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up canvas client: %v", err), err)
	}
	hwSvc := homework.NewService(client)

	registry, err := view.LoadFS(assets.FS, assets.TemplatesDir, view.Options{
		Funcs:  template.FuncMap{"formatDate": homework.FormatDate},
		Strict: conf.Debug || conf.TestMode,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing templates: %v", err), err)
	}
	logger.Info(fmt.Sprintf("templates loaded: %s", strings.Join(registry.Names(), ", ")))
	loader := pageloader.New(hwSvc, registry, logger, pageloader.Options{
		Title:          conf.AppName,
		MaxConcurrency: conf.Loader.MaxConcurrency,
		Timeout:        conf.Loader.Timeout,
		Location:       conf.Loader.TimeLocation(),
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("canvas").Set(conf.Canvas.School)

	if conf.Server.DebugAddress != "" {
		go func() {
			if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			HomeworkSvc: hwSvc,
			Loader:      loader,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
