package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sibexico/PageLab/sim"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a JSON config file (defaults to env/built-in config)")
		frames      = flag.Int("frames", 0, "number of physical frames (overrides config)")
		policy      = flag.String("policy", "", "replacement policy: lru, optimal or both (overrides config)")
		sequenceArg = flag.String("sequence", "", "comma-separated page references, e.g. \"1,2,3,4,1,2,5\"")
		source      = flag.String("source", "", "sequence source: manual, random, locality or process (overrides config)")
		pid         = flag.Int("pid", 0, "process to derive the sequence from (source=process)")
		seed        = flag.Int64("seed", 0, "RNG seed for generated sequences (overrides config)")
		length      = flag.Int("length", 0, "length of generated sequences (overrides config)")
		pages       = flag.Int("pages", 0, "highest page identifier for generated sequences (overrides config)")
		locality    = flag.Float64("locality", -1, "hot-page probability for locality sequences (overrides config)")
		tracePath   = flag.String("trace", "", "write the run's trace to this file")
		listProcs   = flag.Bool("list", false, "list running processes by memory usage and exit")
	)
	flag.Parse()

	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagelab: %v\n", err)
		os.Exit(1)
	}
	applyFlags(config, *frames, *policy, *source, *seed, *length, *pages, *locality)

	logger := newLogger(config.LogLevel)

	if *listProcs {
		if err := printProcesses(); err != nil {
			logger.Error("process listing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sequence, err := buildSequence(config, *sequenceArg, *pid, logger)
	if err != nil {
		logger.Error("could not build reference sequence", "error", err)
		os.Exit(1)
	}
	if len(sequence) == 0 {
		logger.Error("reference sequence is empty")
		os.Exit(1)
	}

	logger.Info("starting simulation",
		"frames", config.FrameCount,
		"policy", config.Policy,
		"references", len(sequence),
	)

	var metrics *sim.Metrics
	if config.EnableMetrics {
		metrics = sim.NewMetrics()
	}

	policies := []string{config.Policy}
	if config.Policy == "both" {
		policies = []string{sim.PolicyLRU, sim.PolicyOptimal}
	}

	results := make(map[string]*sim.SimulationResult, len(policies))
	for _, name := range policies {
		result, err := sim.Run(name, config.FrameCount, sequence, metrics)
		if err != nil {
			logger.Error("simulation failed", "policy", name, "error", err)
			os.Exit(1)
		}
		results[name] = result
		printResult(result)

		if *tracePath != "" {
			if err := writeTrace(*tracePath, result, config); err != nil {
				logger.Error("trace write failed", "policy", name, "error", err)
				os.Exit(1)
			}
		}
	}

	if lru, ok := results[sim.PolicyLRU]; ok {
		if opt, ok := results[sim.PolicyOptimal]; ok {
			printComparison(lru, opt)
		}
	}

	if metrics != nil {
		metrics.LogSummary(logger)
	}
}

// loadConfig resolves the configuration: explicit file, else environment
// with built-in defaults.
func loadConfig(path string) (*sim.Config, error) {
	if path != "" {
		return sim.LoadConfigFromFile(path)
	}
	config := sim.LoadConfigFromEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyFlags lets command-line flags win over the loaded config
func applyFlags(config *sim.Config, frames int, policy, source string, seed int64, length, pages int, locality float64) {
	if frames > 0 {
		config.FrameCount = frames
	}
	if policy != "" {
		config.Policy = policy
	}
	if source != "" {
		config.SequenceSource = source
	}
	if seed != 0 {
		config.Seed = seed
	}
	if length > 0 {
		config.SequenceLength = length
	}
	if pages > 0 {
		config.MaxPages = pages
	}
	if locality >= 0 && locality <= 1 {
		config.LocalityFactor = locality
	}
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

// buildSequence produces the reference sequence from the configured source.
// Parsing user-supplied text happens here, not in the core.
func buildSequence(config *sim.Config, sequenceArg string, pid int, logger *slog.Logger) ([]int, error) {
	switch config.SequenceSource {
	case sim.SourceManual:
		if sequenceArg == "" {
			return nil, fmt.Errorf("source is manual but no -sequence was given")
		}
		return parseSequence(sequenceArg)

	case sim.SourceRandom:
		gen := sim.NewSequenceGenerator(config.Seed)
		return gen.Uniform(config.MaxPages, config.SequenceLength), nil

	case sim.SourceLocality:
		gen := sim.NewSequenceGenerator(config.Seed)
		return gen.LocalityBiased(config.MaxPages, config.SequenceLength, config.LocalityFactor), nil

	case sim.SourceProcess:
		proc, err := pickProcess(pid)
		if err != nil {
			return nil, err
		}
		logger.Info("deriving sequence from process",
			"pid", proc.PID, "name", proc.Name, "memory_mb", fmt.Sprintf("%.1f", proc.MemoryMB))
		gen := sim.NewSequenceGenerator(config.Seed)
		return gen.FromProcess(proc), nil

	default:
		return nil, fmt.Errorf("unknown sequence source %q", config.SequenceSource)
	}
}

// parseSequence turns "1, 2, 3" into page identifiers.
// Non-numeric tokens are input errors surfaced to the user.
func parseSequence(text string) ([]int, error) {
	parts := strings.Split(text, ",")
	sequence := make([]int, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		page, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid page reference %q", token)
		}
		if page < 0 {
			return nil, fmt.Errorf("page references must be non-negative, got %d", page)
		}
		sequence = append(sequence, page)
	}
	return sequence, nil
}

// pickProcess resolves the target process: an explicit PID, or the largest
// resident process when none was given.
func pickProcess(pid int) (sim.ProcessInfo, error) {
	if pid > 0 {
		return sim.FindProcess(pid)
	}
	processes, err := sim.ListProcesses()
	if err != nil {
		return sim.ProcessInfo{}, err
	}
	if len(processes) == 0 {
		return sim.ProcessInfo{}, fmt.Errorf("no processes found")
	}
	return processes[0], nil
}

func printProcesses() error {
	processes, err := sim.ListProcesses()
	if err != nil {
		return err
	}
	fmt.Printf("%-8s %-24s %s\n", "PID", "NAME", "MEMORY (MB)")
	for _, proc := range processes {
		fmt.Printf("%-8d %-24s %.1f\n", proc.PID, proc.Name, proc.MemoryMB)
	}
	return nil
}

// printResult renders the per-step table and the run summary
func printResult(result *sim.SimulationResult) {
	fmt.Printf("\n=== %s ===\n", strings.ToUpper(result.Policy))
	fmt.Printf("%-6s %-6s %-8s %s\n", "STEP", "PAGE", "RESULT", "FRAMES (BEFORE)")
	for i, rec := range result.History {
		outcome := "hit"
		if rec.Fault {
			outcome = "FAULT"
		}
		fmt.Printf("%-6d %-6d %-8s %s\n", i+1, rec.PageAccessed, outcome, formatFrames(rec.FrameState))
	}
	fmt.Printf("\nFinal frames:  %s\n", formatFrames(result.FinalFrameState))
	fmt.Printf("Page faults:   %d of %d (%.1f%%)\n",
		result.FaultCount, result.References(), result.FaultRate()*100)
	fmt.Printf("Hits:          %d\n", result.Hits())
	fmt.Printf("Evictions:     %d\n", result.Evictions())
}

// formatFrames renders a frame state, showing empty slots as "-"
func formatFrames(state []int) string {
	parts := make([]string, len(state))
	for i, page := range state {
		if page == sim.EmptyPage {
			parts[i] = "-"
		} else {
			parts[i] = strconv.Itoa(page)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func printComparison(lru, opt *sim.SimulationResult) {
	fmt.Printf("\n=== COMPARISON ===\n")
	fmt.Printf("LRU faults:     %d\n", lru.FaultCount)
	fmt.Printf("Optimal faults: %d\n", opt.FaultCount)
	if lru.FaultCount > 0 {
		fmt.Printf("LRU efficiency: %.1f%% of optimal\n",
			float64(opt.FaultCount)/float64(lru.FaultCount)*100)
	}
}

// writeTrace stores the run under the configured compression. When both
// policies run, each gets its own file suffixed with the policy name.
func writeTrace(path string, result *sim.SimulationResult, config *sim.Config) error {
	compression, err := sim.ParseCompression(config.TraceCompression)
	if err != nil {
		return err
	}

	target := path
	if config.Policy == "both" {
		ext := filepath.Ext(path)
		target = strings.TrimSuffix(path, ext) + "." + result.Policy + ext
	}
	return sim.WriteTrace(target, result, compression)
}
