// Package monitoring turns an engine into a web server that can be inspected
// and driven over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachesim/cpu"
	"github.com/sarchlab/cachesim/isa"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/monitoring/web"
	"github.com/sarchlab/cachesim/sim"
)

// Monitor can turn an engine into a server and allows external monitoring
// and controlling of the engine. Every request holds the monitor lock while
// it uses the engine.
type Monitor struct {
	lock       sync.Mutex
	engine     *cpu.Engine
	portNumber int

	profileDuration time.Duration
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{profileDuration: time.Second}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterEngine registers the engine to serve.
func (m *Monitor) RegisterEngine(e *cpu.Engine) {
	m.engine = e
}

// Router returns the handler of all the monitor routes.
func (m *Monitor) Router() *mux.Router {
	if m.engine == nil {
		log.Panic("monitor has no engine registered")
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", m.state).Methods(http.MethodGet)
	api.HandleFunc("/inspect", m.inspect).Methods(http.MethodGet)
	api.HandleFunc("/step", m.step).Methods(http.MethodPost)
	api.HandleFunc("/run", m.run).Methods(http.MethodPost)
	api.HandleFunc("/reset", m.reset).Methods(http.MethodPost)
	api.HandleFunc("/progress", m.progress).Methods(http.MethodGet)
	api.HandleFunc("/stats", m.stats).Methods(http.MethodGet)

	api.HandleFunc("/program", m.listProgram).Methods(http.MethodGet)
	api.HandleFunc("/program", m.loadProgram).Methods(http.MethodPut)
	api.HandleFunc("/program/default", m.loadDefaultProgram).
		Methods(http.MethodPost)
	api.HandleFunc("/program/{index}", m.instruction).Methods(http.MethodGet)

	api.HandleFunc("/registers", m.listRegisters).Methods(http.MethodGet)
	api.HandleFunc("/registers/{name}", m.setRegister).Methods(http.MethodPut)

	api.HandleFunc("/memory", m.listMemory).Methods(http.MethodGet)
	api.HandleFunc("/memory/{addr}", m.memoryWord).Methods(http.MethodGet)
	api.HandleFunc("/memory/{addr}", m.setMemoryWord).Methods(http.MethodPut)

	api.HandleFunc("/cache", m.listCache).Methods(http.MethodGet)
	api.HandleFunc("/cache/{line}", m.cacheLine).Methods(http.MethodGet)
	api.HandleFunc("/cache/{line}", m.setCacheLine).Methods(http.MethodPut)

	api.HandleFunc("/mapping", m.mapping).Methods(http.MethodGet)
	api.HandleFunc("/mapping", m.setMapping).Methods(http.MethodPut)
	api.HandleFunc("/explanation", m.explanation).Methods(http.MethodGet)
	api.HandleFunc("/explanation", m.setExplanation).Methods(http.MethodPut)

	api.HandleFunc("/history", m.history).Methods(http.MethodGet)
	api.HandleFunc("/history", m.clearHistory).Methods(http.MethodDelete)

	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server with a custom port if
// wanted. It returns the URL the server listens on.
func (m *Monitor) StartServer() string {
	r := m.Router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	return url
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	s := m.engine.Snapshot()
	m.lock.Unlock()

	writeJSON(w, s)
}

// inspect dumps the engine internals. The optional field parameter is a
// dot separated path into the engine struct.
func (m *Monitor) inspect(w http.ResponseWriter, r *http.Request) {
	depth := 1
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := sim.ParseValue(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		depth = n
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.engine)
	serializer.SetMaxDepth(depth)

	if field := r.URL.Query().Get("field"); field != "" {
		err := serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	res, err := m.engine.Step()
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	writeJSON(w, res)
}

func (m *Monitor) run(w http.ResponseWriter, r *http.Request) {
	maxSteps := 0
	if s := r.URL.Query().Get("max"); s != "" {
		n, err := sim.ParseValue(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		maxSteps = n
	}

	m.lock.Lock()
	results, err := m.engine.Run(maxSteps)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	if results == nil {
		results = []cpu.StepResult{}
	}

	writeJSON(w, results)
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	m.engine.Reset()
	s := m.engine.Snapshot()
	m.lock.Unlock()

	writeJSON(w, s)
}

type statsRsp struct {
	TotalCycles         uint64 `json:"total_cycles"`
	Hits                uint64 `json:"hits"`
	Misses              uint64 `json:"misses"`
	LastCost            int    `json:"last_cost"`
	LastOperationText   string `json:"last_operation_text"`
	LastExplanationText string `json:"last_explanation_text"`
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	hits, misses := m.engine.HitMissCounts()
	rsp := statsRsp{
		TotalCycles:         m.engine.TotalCycles(),
		Hits:                hits,
		Misses:              misses,
		LastCost:            m.engine.LastCost(),
		LastOperationText:   m.engine.LastOperationText(),
		LastExplanationText: m.engine.LastExplanationText(),
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

type programRsp struct {
	Instructions   []string `json:"instructions"`
	ProgramCounter int      `json:"program_counter"`
	Halted         bool     `json:"halted"`
}

func (m *Monitor) listProgram(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := programRsp{
		Instructions:   m.engine.Instructions(),
		ProgramCounter: m.engine.ProgramCounter(),
		Halted:         m.engine.Halted(),
	}
	m.lock.Unlock()

	if rsp.Instructions == nil {
		rsp.Instructions = []string{}
	}

	writeJSON(w, rsp)
}

// loadProgram replaces the program with the request body, one instruction
// per line.
func (m *Monitor) loadProgram(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lines := strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n")

	m.lock.Lock()
	err = m.engine.LoadInstructions(lines)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.listProgram(w, r)
}

func (m *Monitor) loadDefaultProgram(w http.ResponseWriter, r *http.Request) {
	m.lock.Lock()
	err := m.engine.LoadDefaultProgram()
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.listProgram(w, r)
}

func (m *Monitor) instruction(w http.ResponseWriter, r *http.Request) {
	i, ok := pathValue(w, r, "index")
	if !ok {
		return
	}

	m.lock.Lock()
	text, err := m.engine.InstructionText(i)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, textRsp{Text: text})
}

type textRsp struct {
	Text string `json:"text"`
}

type registersRsp struct {
	Values map[string]int `json:"values"`
	Text   string         `json:"text"`
}

func (m *Monitor) listRegisters(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := registersRsp{
		Values: m.engine.Registers(),
		Text:   m.engine.RegistersText(),
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) setRegister(w http.ResponseWriter, r *http.Request) {
	value, ok := queryValue(w, r)
	if !ok {
		return
	}

	m.lock.Lock()
	err := m.engine.SetRegister(mux.Vars(r)["name"], value)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.listRegisters(w, r)
}

type memoryRsp struct {
	Words []int  `json:"words"`
	Text  string `json:"text"`
}

func (m *Monitor) listMemory(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := memoryRsp{
		Words: m.engine.Memory(),
		Text:  m.engine.MemoryText(),
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

type wordRsp struct {
	Address int `json:"address"`
	Value   int `json:"value"`
}

func (m *Monitor) memoryWord(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathValue(w, r, "addr")
	if !ok {
		return
	}

	m.lock.Lock()
	v, err := m.engine.MemoryWord(addr)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, wordRsp{Address: addr, Value: v})
}

func (m *Monitor) setMemoryWord(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathValue(w, r, "addr")
	if !ok {
		return
	}

	value, ok := queryValue(w, r)
	if !ok {
		return
	}

	m.lock.Lock()
	err := m.engine.SetMemoryWord(addr, value)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, wordRsp{Address: addr, Value: value})
}

type cacheRsp struct {
	MappingMode string           `json:"mapping_mode"`
	Lines       []cache.Line     `json:"lines"`
	Text        []string         `json:"text"`
	Stats       cache.Statistics `json:"stats"`
}

func (m *Monitor) listCache(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := cacheRsp{
		MappingMode: m.engine.MappingMode().String(),
		Lines:       m.engine.CacheLines(),
		Stats:       m.engine.CacheStats(),
	}

	for i := range rsp.Lines {
		rsp.Text = append(rsp.Text, rsp.Lines[i].String())
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) cacheLine(w http.ResponseWriter, r *http.Request) {
	line, ok := pathValue(w, r, "line")
	if !ok {
		return
	}

	m.lock.Lock()
	text, err := m.engine.CacheLineText(line)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, textRsp{Text: text})
}

func (m *Monitor) setCacheLine(w http.ResponseWriter, r *http.Request) {
	line, ok := pathValue(w, r, "line")
	if !ok {
		return
	}

	value, ok := queryValue(w, r)
	if !ok {
		return
	}

	m.lock.Lock()
	err := m.engine.SetCacheLineData(line, value)
	var text string
	if err == nil {
		text, err = m.engine.CacheLineText(line)
	}
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, textRsp{Text: text})
}

type modeRsp struct {
	Mode string `json:"mode"`
}

func (m *Monitor) mapping(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	mode := m.engine.MappingMode()
	m.lock.Unlock()

	writeJSON(w, modeRsp{Mode: mode.String()})
}

func (m *Monitor) setMapping(w http.ResponseWriter, r *http.Request) {
	mode, err := cache.ParseMappingMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.lock.Lock()
	err = m.engine.SetMappingMode(mode)
	m.lock.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.mapping(w, r)
}

type explanationRsp struct {
	On bool `json:"on"`
}

func (m *Monitor) explanation(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	on := m.engine.ExplanationMode()
	m.lock.Unlock()

	writeJSON(w, explanationRsp{On: on})
}

func (m *Monitor) setExplanation(w http.ResponseWriter, r *http.Request) {
	on, err := strconv.ParseBool(r.URL.Query().Get("on"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m.lock.Lock()
	m.engine.SetExplanationMode(on)
	m.lock.Unlock()

	writeJSON(w, explanationRsp{On: on})
}

type historyRsp struct {
	Entries []cpu.HistoryEntry `json:"entries"`
	Text    string             `json:"text"`
}

func (m *Monitor) history(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := historyRsp{
		Entries: m.engine.History(),
		Text:    m.engine.HistoryText(),
	}
	m.lock.Unlock()

	if rsp.Entries == nil {
		rsp.Entries = []cpu.HistoryEntry{}
	}

	writeJSON(w, rsp)
}

func (m *Monitor) clearHistory(w http.ResponseWriter, r *http.Request) {
	m.lock.Lock()
	m.engine.ClearHistory()
	m.lock.Unlock()

	m.history(w, r)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func pathValue(
	w http.ResponseWriter,
	r *http.Request,
	name string,
) (int, bool) {
	v, err := sim.ParseValue(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, false
	}

	return v, true
}

func queryValue(w http.ResponseWriter, r *http.Request) (int, bool) {
	v, err := sim.ParseValue(r.URL.Query().Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, false
	}

	return v, true
}

type errorRsp struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	rsp := errorRsp{Error: err.Error()}

	var parseErr *isa.ParseError
	if errors.As(err, &parseErr) {
		rsp.Line = parseErr.Line
	}

	bytes, mErr := json.Marshal(rsp)
	dieOnErr(mErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
