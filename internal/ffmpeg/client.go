package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"

	"aircheck/internal/services"
)

// Converter defines the transcoding operation used by the pipeline.
type Converter interface {
	Convert(ctx context.Context, input, output string, args []string, limitSeconds int) error
}

// Remuxer rewrites a media container with fresh metadata, copying the
// streams untouched.
type Remuxer interface {
	Remux(ctx context.Context, input, output string, metadata map[string]string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps FFmpeg CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

var (
	_ Converter = (*Client)(nil)
	_ Remuxer   = (*Client)(nil)
)

// New constructs an FFmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert transcodes input into output using the configured argument
// list. A positive limitSeconds truncates the result. A failed run
// removes the partial output so a later run starts clean.
func (c *Client) Convert(ctx context.Context, input, output string, args []string, limitSeconds int) error {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "convert", "input and output paths required", nil)
	}
	if input == output {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "convert",
			fmt.Sprintf("output %s would overwrite its own input", output), nil)
	}

	runArgs := []string{"-y"}
	if limitSeconds > 0 {
		runArgs = append(runArgs, "-t", strconv.Itoa(limitSeconds))
	}
	runArgs = append(runArgs, "-i", input)
	runArgs = append(runArgs, args...)
	runArgs = append(runArgs, "-sample_fmt", "s16", output)

	tail := newTailBuffer(5)
	if err := c.exec.Run(ctx, c.binary, runArgs, tail.Add); err != nil {
		_ = os.Remove(output) // remove the partial output
		return services.Wrap(services.ErrTranscode, "ffmpeg", "convert",
			fmt.Sprintf("command %s %s%s", c.binary, strings.Join(runArgs, " "), tail.Suffix()), err)
	}
	return nil
}

// Remux copies every stream of input into output and replaces the
// container metadata with the given key/value pairs.
func (c *Client) Remux(ctx context.Context, input, output string, metadata map[string]string) error {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrTag, "ffmpeg", "remux", "input and output paths required", nil)
	}
	if input == output {
		return services.Wrap(services.ErrTag, "ffmpeg", "remux",
			fmt.Sprintf("output %s would overwrite its own input", output), nil)
	}

	runArgs := []string{"-y", "-i", input, "-map", "0", "-c", "copy"}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		runArgs = append(runArgs, "-metadata", key+"="+metadata[key])
	}
	runArgs = append(runArgs, output)

	tail := newTailBuffer(5)
	if err := c.exec.Run(ctx, c.binary, runArgs, tail.Add); err != nil {
		_ = os.Remove(output) // remove the partial output
		return services.Wrap(services.ErrTag, "ffmpeg", "remux",
			fmt.Sprintf("command %s %s%s", c.binary, strings.Join(runArgs, " "), tail.Suffix()), err)
	}
	return nil
}

// SplitArgs breaks a configured argument string into argv form.
func SplitArgs(args string) []string {
	return strings.Fields(args)
}

// OutputExtension infers the output file extension from a transcoder
// argument string. Codec mentions are checked in a fixed priority order
// so mixed argument strings stay predictable.
func OutputExtension(args string) (string, bool) {
	lower := strings.ToLower(args)
	switch {
	case strings.Contains(lower, "opus"):
		return ".opus", true
	case strings.Contains(lower, "mp3"):
		return ".mp3", true
	case strings.Contains(lower, "vorbis"):
		return ".ogg", true
	case strings.Contains(lower, "aac"):
		return ".m4a", true
	}
	return "", false
}

// tailBuffer keeps the last few output lines for error context.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) Suffix() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.lines) == 0 {
		return ""
	}
	return "; last output: " + strings.Join(t.lines, " | ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onOutput != nil {
			onOutput(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
