package gen

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/qobs-build/shadermake/internal/msg"
	"github.com/qobs-build/shadermake/internal/project"
	"golang.org/x/sync/errgroup"
)

// StepState is what the previous run recorded for one output
type StepState struct {
	Input       string `json:"input"`
	InputHash   string `json:"input_hash"`
	CommandLine string `json:"command_line"`
}

// StepError is a build step that exited unsuccessfully
type StepError struct {
	Step   project.CustomFileBuildStep
	Output []byte // combined stdout and stderr of the step
	Err    error
}

func (e *StepError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %v\n", e.Step.KeyInput, e.Step.Configuration, e.Err)
	writeln(&sb, e.Step.CommandLine)
	if out := bytes.TrimRight(e.Output, "\r\n"); len(out) > 0 {
		w := &msg.IndentWriter{Indent: "    ", W: &sb}
		w.Write(out)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *StepError) Unwrap() error { return e.Err }

type stepJob struct {
	step      project.CustomFileBuildStep
	inputHash string
}

// NativeRunner runs the custom build steps of its projects directly, in
// parallel, skipping steps whose input and command line did not change since
// the last successful run.
type NativeRunner struct {
	Stdout io.Writer
	Jobs   int

	steps      []project.CustomFileBuildStep
	stateFile  string
	buildState map[string]*StepState // output -> state
	hashCache  map[string]string
	mu         sync.Mutex
}

func NewNativeRunner() *NativeRunner {
	return &NativeRunner{
		Stdout:     os.Stdout,
		Jobs:       runtime.NumCPU(),
		buildState: make(map[string]*StepState),
		hashCache:  make(map[string]string),
	}
}

func (g *NativeRunner) BuildFile() string {
	return "shadermake_build_state.json"
}

func (g *NativeRunner) AddProject(p *project.Project) {
	g.steps = append(g.steps, p.BuildSteps()...)
}

func (g *NativeRunner) Generate() (string, error) {
	return "", nil // no build file needed
}

// Invoke runs all dirty steps
func (g *NativeRunner) Invoke(buildDir string) error {
	return g.Run(context.Background(), buildDir)
}

// Run runs all dirty steps. Steps that have not started yet are abandoned
// once one step fails or ctx is done.
func (g *NativeRunner) Run(ctx context.Context, buildDir string) error {
	g.stateFile = filepath.Join(buildDir, g.BuildFile())

	if err := g.loadBuildState(); err != nil {
		msg.Warn("failed to load build state: %v", err)
	}

	jobs, err := g.plan()
	if err != nil {
		return fmt.Errorf("build planning failed: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Fprintln(g.Stdout, "shadermake: no work to do.")
		return nil
	}

	pb := msg.NewProgressBar(len(jobs), 0, g.Stdout)
	runErr := runJobs(ctx, jobs, func(ctx context.Context, job stepJob) error {
		if err := g.runStep(ctx, job, pb); err != nil {
			return err
		}
		g.recordState(job)
		return nil
	}, g.Jobs)
	pb.Finish()

	// successful steps are remembered even if another step failed
	if err := g.saveBuildState(); err != nil {
		msg.Warn("failed to save build state: %v", err)
	}

	return runErr
}

// plan determines which steps are dirty
func (g *NativeRunner) plan() ([]stepJob, error) {
	var jobs []stepJob
	for _, step := range g.steps {
		hash, err := g.fileHash(step.KeyInput)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("input file %s not found", step.KeyInput)
			}
			return nil, err
		}

		if g.isStepDirty(step, hash) {
			jobs = append(jobs, stepJob{step: step, inputHash: hash})
		}
	}
	return jobs, nil
}

// isStepDirty checks if a single step needs to be rerun
func (g *NativeRunner) isStepDirty(step project.CustomFileBuildStep, inputHash string) bool {
	if _, err := os.Stat(step.Output); err != nil {
		return true
	}

	state, ok := g.buildState[step.Output]
	if !ok {
		return true
	}

	return state.Input != step.KeyInput || state.InputHash != inputHash || state.CommandLine != step.CommandLine
}

// runStep runs a single step, creating the output directory first
func (g *NativeRunner) runStep(ctx context.Context, job stepJob, pb *msg.ProgressBar) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	step := job.step
	if err := os.MkdirAll(filepath.Dir(step.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, step.Executable, step.Args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &StepError{Step: step, Output: out, Err: err}
	}

	if len(bytes.TrimSpace(out)) > 0 {
		pb.Println(string(out))
	}
	pb.Step(step.Description)
	return nil
}

// recordState updates the build state after a successful step
func (g *NativeRunner) recordState(job stepJob) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.buildState[job.step.Output] = &StepState{
		Input:       job.step.KeyInput,
		InputHash:   job.inputHash,
		CommandLine: job.step.CommandLine,
	}
}

// loadBuildState loads the previous build state from disk
func (g *NativeRunner) loadBuildState() error {
	f, err := os.Open(g.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no previous state, that's fine
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(bufio.NewReader(f)).Decode(&g.buildState)
}

// saveBuildState saves the current build state to disk
func (g *NativeRunner) saveBuildState() error {
	g.mu.Lock()
	data, err := json.MarshalIndent(g.buildState, "", "  ")
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(g.stateFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(g.stateFile, data, 0644)
}

// fileHash computes the SHA256 hash of a file with an in-memory cache
func (g *NativeRunner) fileHash(path string) (string, error) {
	if hash, ok := g.hashCache[path]; ok {
		return hash, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	hexHash := hex.EncodeToString(hash.Sum(nil))
	g.hashCache[path] = hexHash
	return hexHash, nil
}

// runJobs runs jobs in parallel
func runJobs[T any](ctx context.Context, jobs []T, jobfunc func(ctx context.Context, job T) error, limit int) error {
	if len(jobs) == 0 {
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(limit, 1))

	for _, job := range jobs {
		eg.Go(func() error {
			return jobfunc(ctx, job)
		})
	}

	return eg.Wait()
}
