// Package server exposes a SimpleCPU emulator over HTTP.
//
// It stands in for the interactive front end: programs are submitted as
// pasted text or uploaded plain-text files, the machine is driven one
// primitive at a time, and the observable state is returned as JSON after
// every request.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/netutil"

	"github.com/jemendoz/WebCPU/cpu"
	"github.com/jemendoz/WebCPU/emulator"
	"github.com/jemendoz/WebCPU/translate"
)

var f = translate.From

const (
	MAX_PROGRAM_SIZE = 1 << 20 // Largest accepted program text, in bytes.
)

var (
	ErrNotPlainText = errors.New(f("program upload must be text/plain"))
	ErrNoProgram    = errors.New(f("no program submitted"))
	ErrUnknownOp    = errors.New(f("unknown machine operation"))
)

// State is the JSON snapshot of the machine.
type State struct {
	State     string            `json:"state"`
	Pc        int               `json:"pc"`
	Ir        string            `json:"ir"`
	LineNo    int               `json:"lineno"`
	Registers map[string]string `json:"registers"`
	Memory    map[string]string `json:"memory"`
	Program   []string          `json:"program"`
	Ticks     int               `json:"ticks"`
	Error     string            `json:"error,omitempty"`
}

// Server owns a single emulator. Requests are serialized.
type Server struct {
	Assemble bool         // Read submitted programs with the assembler syntax.
	Logger   *slog.Logger // Log destination, slog.Default() if nil.

	mu  sync.Mutex
	emu *emulator.Emulator
}

// NewServer creates a server driving emu.
func NewServer(emu *emulator.Emulator) (srv *Server) {
	srv = &Server{
		emu: emu,
	}

	return
}

func (srv *Server) logger() *slog.Logger {
	if srv.Logger != nil {
		return srv.Logger
	}

	return slog.Default()
}

// Handler returns the HTTP routes of the server.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /state", srv.handleState)
	mux.HandleFunc("POST /program", srv.handleProgram)
	mux.HandleFunc("POST /cpu/{op}", srv.handleOp)

	return mux
}

// ListenAndServe serves on addr until ctx is done, accepting at most
// maxConns concurrent connections.
func (srv *Server) ListenAndServe(ctx context.Context, addr string, maxConns int) (err error) {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return
	}
	if maxConns > 0 {
		listener = netutil.LimitListener(listener, maxConns)
	}

	hs := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdown)
	}()

	srv.logger().Info("server: listening", "addr", listener.Addr().String(), "max_conns", maxConns)

	err = hs.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return
}

// snapshot captures the machine state. Caller holds srv.mu.
func (srv *Server) snapshot() (st State) {
	m := srv.emu.Machine

	st = State{
		State:     m.State().String(),
		Pc:        m.Pc(),
		Ir:        m.Ir(),
		LineNo:    srv.emu.LineNo(),
		Registers: map[string]string{},
		Memory:    map[string]string{},
		Program:   m.Program(),
		Ticks:     m.Ticks(),
	}

	for name, value := range m.Registers() {
		st.Registers[name] = string(value)
	}
	for address, value := range m.Memory() {
		st.Memory[address] = string(value)
	}
	if st.Program == nil {
		st.Program = []string{}
	}

	return
}

func (srv *Server) reply(w http.ResponseWriter, code int, st State) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(st)
	if err != nil {
		srv.logger().Warn("server: reply", "error", err)
	}
}

// replyError replies with the machine state and the failure.
// Caller holds srv.mu.
func (srv *Server) replyError(w http.ResponseWriter, code int, err error) {
	st := srv.snapshot()
	st.Error = err.Error()

	srv.logger().Info("server: request failed", "code", code, "error", err)
	srv.reply(w, code, st)
}

func (srv *Server) handleState(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.reply(w, http.StatusOK, srv.snapshot())
}

// programText extracts the submitted program from a pasted text_area form
// field, or an uploaded text/plain file field.
func programText(r *http.Request) (text io.Reader, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MAX_PROGRAM_SIZE)

	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype == "multipart/form-data" {
		file, header, ferr := r.FormFile("file")
		if ferr == nil {
			ctype, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
			if ctype != "text/plain" {
				file.Close()
				err = ErrNotPlainText
				return
			}
			defer file.Close()
			text, err = plainText(file)
			return
		}
		if !errors.Is(ferr, http.ErrMissingFile) {
			err = ferr
			return
		}
	}

	err = r.ParseForm()
	if err != nil {
		return
	}

	if !r.PostForm.Has("text_area") {
		err = ErrNoProgram
		return
	}

	text = strings.NewReader(r.PostForm.Get("text_area"))
	return
}

// plainText reads an uploaded file, which must sniff as text.
func plainText(file io.Reader) (text io.Reader, err error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return
	}

	if len(content) > 0 {
		isText := false
		for t := mimetype.Detect(content); t != nil; t = t.Parent() {
			if t.Is("text/plain") {
				isText = true
				break
			}
		}
		if !isText {
			err = ErrNotPlainText
			return
		}
	}

	text = bytes.NewReader(content)
	return
}

func (srv *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	// Any submission resets the machine, even a rejected one.
	srv.emu.Reset()

	text, err := programText(r)
	if err != nil {
		srv.replyError(w, http.StatusBadRequest, err)
		return
	}

	var prog *cpu.Program
	if srv.Assemble {
		asm := &cpu.Assembler{Logger: srv.Logger}
		prog, err = asm.Parse(text)
	} else {
		prog, err = cpu.ReadProgram(text)
	}
	if err != nil {
		srv.replyError(w, http.StatusUnprocessableEntity, err)
		return
	}

	srv.emu.Load(prog)

	srv.logger().Info("server: program loaded", "lines", len(prog.Lines))
	srv.reply(w, http.StatusOK, srv.snapshot())
}

func (srv *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	var err error

	m := srv.emu.Machine
	op := r.PathValue("op")
	switch op {
	case "fetch":
		err = m.LoadInstruction()
	case "increment":
		m.Increment()
	case "execute":
		err = m.Execute()
	case "step":
		_, err = srv.emu.Tick()
	case "run":
		_, err = srv.emu.Run(r.Context())
	case "reset":
		srv.emu.Reset()
	case "wipe":
		srv.emu.WipeProgram()
	default:
		srv.replyError(w, http.StatusNotFound, ErrUnknownOp)
		return
	}

	if err != nil {
		srv.replyError(w, http.StatusUnprocessableEntity, err)
		return
	}

	srv.reply(w, http.StatusOK, srv.snapshot())
}
