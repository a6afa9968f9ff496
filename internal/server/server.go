package server

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/packagewjx/tensorprep/internal/preprocess"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/pkg/errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DefaultPort         = 2000
	DefaultMaxBodyBytes = 64 << 20
	DefaultRecordLimit  = 20
)

const shutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port         uint16 // listening port, 1024 to 65535
	MaxBodyBytes int64  // upper bound of a request body
	Record       bool   // save a run record for every request
	MysqlDSN     string // used when Record is set, see store.ResolveDSN
}

func (s ServerConfig) String() string {
	marshal, _ := json.Marshal(s)
	return string(marshal)
}

func (config *ServerConfig) Complete() error {
	if config.Port < 1024 {
		return fmt.Errorf("port must be between 1024 and 65535, got %d", config.Port)
	}

	if config.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body size must be positive, got %d", config.MaxBodyBytes)
	}

	if config.Record {
		dsn, err := store.ResolveDSN(config.MysqlDSN)
		if err != nil {
			return err
		}
		config.MysqlDSN = dsn
	}

	return nil
}

type Server interface {
	Start() error
	Handler() http.Handler
}

func NewServer(config *ServerConfig, pipeline *preprocess.Pipeline) (Server, error) {
	if err := config.Complete(); err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, errors.New("server needs a pipeline")
	}

	s := &serverImpl{
		config:   config,
		pipeline: pipeline,
		logger:   log.New(os.Stdout, "tensorprep server: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}

	if config.Record {
		dao, err := store.NewDao(config.MysqlDSN)
		if err != nil {
			return nil, err
		}
		s.dao = dao
	}

	return s, nil
}

type serverImpl struct {
	config   *ServerConfig
	pipeline *preprocess.Pipeline
	dao      store.Dao
	logger   *log.Logger
}

func (s *serverImpl) Start() error {
	s.logger.Printf("server starting with config %v, pipeline %s", s.config, s.pipeline.Name())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.Handler(),
	}
	errCh := make(chan error, 1)
	go s.serve(server, errCh)

	termSigChan := make(chan os.Signal, 1)
	signal.Notify(termSigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(termSigChan)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "HTTP server stopped")
	case sig := <-termSigChan:
		s.logger.Printf("received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutting down HTTP server")
	}

	return <-errCh
}

func (s *serverImpl) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/preprocess", s.handlePreprocess)
	mux.HandleFunc("/pipeline", s.handlePipeline)
	mux.HandleFunc("/records", s.handleRecords)
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("OK"))
	})
	return mux
}

func (s *serverImpl) serve(server *http.Server, errCh chan<- error) {
	s.logger.Printf("API server listening on %s", server.Addr)

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}

	s.logger.Printf("API server stopped")
	errCh <- err
}
