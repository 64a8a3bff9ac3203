package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jemendoz/WebCPU/emulator"
)

func newTestServer(t *testing.T) (srv *Server, ts *httptest.Server) {
	srv = NewServer(emulator.NewEmulator())
	ts = httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return
}

func decode(t *testing.T, resp *http.Response) (st State) {
	defer resp.Body.Close()

	err := json.NewDecoder(resp.Body).Decode(&st)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func submit(t *testing.T, ts *httptest.Server, text string) (code int, st State) {
	resp, err := http.PostForm(ts.URL+"/program", url.Values{"text_area": {text}})
	if err != nil {
		t.Fatal(err)
	}

	code = resp.StatusCode
	st = decode(t, resp)
	return
}

func op(t *testing.T, ts *httptest.Server, name string) (code int, st State) {
	resp, err := http.Post(ts.URL+"/cpu/"+name, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	code = resp.StatusCode
	st = decode(t, resp)
	return
}

func upload(t *testing.T, ts *httptest.Server, ctype string, text string) (code int, st State) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="prog.txt"`)
	header.Set("Content-Type", ctype)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(text))
	mw.Close()

	resp, err := http.Post(ts.URL+"/program", mw.FormDataContentType(), body)
	if err != nil {
		t.Fatal(err)
	}

	code = resp.StatusCode
	st = decode(t, resp)
	return
}

func TestState(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/state")
	assert.NoError(err)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("application/json", resp.Header.Get("Content-Type"))

	st := decode(t, resp)
	assert.Equal("halt", st.State)
	assert.Equal(0, st.Pc)
	assert.Equal("", st.Ir)
	assert.Equal(map[string]string{"A": "0", "B": "0", "C": "0", "TEST": "="}, st.Registers)
	assert.Empty(st.Memory)
	assert.Empty(st.Program)
}

func TestProgramSubmit(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	code, st := submit(t, ts, "CONA 9\n\nSAVEA X\r\nCONA 0\nLOADA X\nSTOP\n")
	assert.Equal(http.StatusOK, code)
	assert.Equal("running", st.State)
	assert.Equal([]string{"CONA 9", "SAVEA X", "CONA 0", "LOADA X", "STOP"}, st.Program)
	assert.Equal(1, st.LineNo)

	code, st = op(t, ts, "step")
	assert.Equal(http.StatusOK, code)
	assert.Equal(1, st.Pc)
	assert.Equal("CONA 9", st.Ir)
	assert.Equal("9", st.Registers["A"])
	assert.Equal(3, st.LineNo)

	code, st = op(t, ts, "run")
	assert.Equal(http.StatusOK, code)
	assert.Equal("halt", st.State)
	assert.Equal("9", st.Registers["A"])
	assert.Equal(map[string]string{"X": "9"}, st.Memory)
	assert.Equal(5, st.Ticks)
}

func TestPrimitiveOps(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	submit(t, ts, "CONA 5\nJUMP 0\n")

	_, st := op(t, ts, "fetch")
	assert.Equal("CONA 5", st.Ir)
	assert.Equal(0, st.Pc)

	_, st = op(t, ts, "increment")
	assert.Equal(1, st.Pc)

	_, st = op(t, ts, "execute")
	assert.Equal("5", st.Registers["A"])
	assert.Equal(1, st.Pc)

	_, st = op(t, ts, "step")
	assert.Equal(0, st.Pc)
	assert.Equal("JUMP 0", st.Ir)

	_, st = op(t, ts, "wipe")
	assert.Empty(st.Program)
	assert.Equal("5", st.Registers["A"])
	assert.Equal("running", st.State)

	_, st = op(t, ts, "reset")
	assert.Equal("halt", st.State)
	assert.Equal("0", st.Registers["A"])
}

func TestRunBounded(t *testing.T) {
	assert := assert.New(t)

	srv, ts := newTestServer(t)
	srv.emu.MaxSteps = 50

	submit(t, ts, "CONA 5\nJUMP 0\n")

	code, st := op(t, ts, "run")
	assert.Equal(http.StatusUnprocessableEntity, code)
	assert.NotEmpty(st.Error)
	assert.Equal("running", st.State)
	assert.Equal(50, st.Ticks)
}

func TestOpErrors(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	submit(t, ts, "CONA 1\nCONB 0\nDIV\n")

	code, st := op(t, ts, "run")
	assert.Equal(http.StatusUnprocessableEntity, code)
	assert.NotEmpty(st.Error)
	assert.Equal("1", st.Registers["A"])
	assert.Equal("0", st.Registers["C"])

	code, st = op(t, ts, "jump")
	assert.Equal(http.StatusNotFound, code)
	assert.NotEmpty(st.Error)

	submit(t, ts, "FOO\n")
	code, st = op(t, ts, "step")
	assert.Equal(http.StatusUnprocessableEntity, code)
	assert.Contains(st.Error, "FOO")
	assert.Equal("running", st.State)
}

func TestProgramUpload(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	code, st := upload(t, ts, "text/plain; charset=utf-8", "CONA 7\nCONB 2\n\nMOD\nSTOP\n")
	assert.Equal(http.StatusOK, code)
	assert.Equal([]string{"CONA 7", "CONB 2", "MOD", "STOP"}, st.Program)

	_, st = op(t, ts, "run")
	assert.Equal("1", st.Registers["C"])

	code, st = upload(t, ts, "application/octet-stream", "CONA 7\n")
	assert.Equal(http.StatusBadRequest, code)
	assert.NotEmpty(st.Error)
	assert.Equal("halt", st.State)
	assert.Empty(st.Program)

	code, st = upload(t, ts, "text/plain", "\x00\x01\x02\x03CONA 7\n")
	assert.Equal(http.StatusBadRequest, code)
	assert.NotEmpty(st.Error)
	assert.Empty(st.Program)
}

func TestProgramMissing(t *testing.T) {
	assert := assert.New(t)

	_, ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/program", url.Values{"other": {"x"}})
	assert.NoError(err)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	st := decode(t, resp)
	assert.NotEmpty(st.Error)
}

func TestProgramAssemble(t *testing.T) {
	assert := assert.New(t)

	srv, ts := newTestServer(t)
	srv.Assemble = true

	code, st := submit(t, ts, "; sum\nCONA 3 ; three\nCONB 4\nADD\nJUMP end\nCONC 0\nend: STOP\n")
	assert.Equal(http.StatusOK, code)
	assert.Equal([]string{"CONA 3", "CONB 4", "ADD", "JUMP 5", "CONC 0", "STOP"}, st.Program)

	_, st = op(t, ts, "run")
	assert.Equal("7", st.Registers["C"])

	code, st = submit(t, ts, "BAD\n")
	assert.Equal(http.StatusUnprocessableEntity, code)
	assert.NotEmpty(st.Error)
	assert.Equal("halt", st.State)
}

func TestListenAndServe(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer(emulator.NewEmulator())

	// Find a free port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := listener.Addr().String()
	listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, addr, 2)
	}()

	var resp *http.Response
	for range 50 {
		resp, err = http.Get("http://" + addr + "/state")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if assert.NoError(err) {
		st := decode(t, resp)
		assert.Equal("halt", st.State)
	}

	cancel()
	select {
	case err = <-done:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestProgramTooLarge(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer(emulator.NewEmulator())

	form := url.Values{"text_area": {strings.Repeat("CONA 1\n", MAX_PROGRAM_SIZE/7+1)}}
	req := httptest.NewRequest(http.MethodPost, "/program", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(http.StatusBadRequest, rec.Code)

	var st State
	assert.NoError(json.NewDecoder(rec.Body).Decode(&st))
	assert.NotEmpty(st.Error)
}
