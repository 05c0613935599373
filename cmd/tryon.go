package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

var tryOnCmd = &cobra.Command{
	Use:   "tryon",
	Short: "Render glasses frames onto photos",
	Long: `Render one or more glasses frame styles onto a photo.

Landmarks come from --landmarks or, when omitted, from the configured
detector (LANDMARK_URL or FACE_MODELS_DIR). In --dir mode every image in
the directory is processed and a sibling <name>.json is used as its
landmark file when present.`,
	Example: `  looksmaxxer tryon --photo me.jpg --landmarks me.json --style aviators
  looksmaxxer tryon --dir selfies/ --out renders/ --style round,browline`,
	Args: cobra.NoArgs,
	RunE: runTryOn,
}

func init() {
	rootCmd.AddCommand(tryOnCmd)

	tryOnCmd.Flags().String("photo", "", "Photo to render onto")
	tryOnCmd.Flags().String("landmarks", "", "Landmark JSON file (default: run the detector)")
	tryOnCmd.Flags().StringSlice("style", []string{"aviators"}, "Frame style(s): "+strings.Join(catalog.Styles, ", "))
	tryOnCmd.Flags().String("out", "", "Output file, or directory in --dir mode")
	tryOnCmd.Flags().String("dir", "", "Process every image in this directory")
	tryOnCmd.Flags().Int("concurrency", constants.DefaultConcurrency, "Parallel renders in --dir mode")
	tryOnCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
	tryOnCmd.MarkFlagsMutuallyExclusive("photo", "dir")
	tryOnCmd.MarkFlagsOneRequired("photo", "dir")
}

// tryOnJob renders the styles onto one photo.
type tryOnJob struct {
	photo     string
	landmarks string // empty runs the detector
}

// TryOnOutput describes one rendered file.
type TryOnOutput struct {
	Photo     string            `json:"photo"`
	Style     string            `json:"style"`
	Output    string            `json:"output"`
	Placement overlay.Placement `json:"placement"`
}

// TryOnResult is the tryon command output.
type TryOnResult struct {
	Rendered   []TryOnOutput `json:"rendered"`
	Errors     []string      `json:"errors,omitempty"`
	DurationMs int64         `json:"duration_ms"`
}

// renderer holds what every render needs.
type renderer struct {
	frames   *catalog.Catalog
	detector detect.Detector
}

func runTryOn(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	frames, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	styles := mustGetStringSlice(cmd, "style")
	for i, style := range styles {
		if !frames.Has(style) {
			return fmt.Errorf("%w: %q (available: %s)", catalog.ErrUnknownStyle, style, strings.Join(frames.Tags(), ", "))
		}
		styles[i] = catalog.Normalize(style)
	}

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}
	if c, ok := detector.(interface{ Close() }); ok {
		defer c.Close()
	}
	r := &renderer{frames: frames, detector: detector}

	if dir := mustGetString(cmd, "dir"); dir != "" {
		return runTryOnBatch(cmd, r, dir, styles)
	}

	job := tryOnJob{photo: mustGetString(cmd, "photo"), landmarks: mustGetString(cmd, "landmarks")}
	out := mustGetString(cmd, "out")
	if out != "" && len(styles) > 1 {
		return errors.New("--out names a single file, use --dir for several styles")
	}

	start := time.Now()
	outputs, err := r.render(cmd.Context(), job, styles, func(style string) string {
		if out != "" {
			return out
		}
		return outputPath(filepath.Dir(job.photo), job.photo, style)
	})
	if err != nil {
		return err
	}

	result := TryOnResult{Rendered: outputs, DurationMs: time.Since(start).Milliseconds()}
	if mustGetBool(cmd, "json") {
		return outputJSON(cmd.OutOrStdout(), result)
	}
	for _, o := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (angle %.1f°)\n", o.Style, o.Output, o.Placement.Angle)
	}
	return nil
}

func runTryOnBatch(cmd *cobra.Command, r *renderer, dir string, styles []string) error {
	outDir := mustGetString(cmd, "out")
	if outDir == "" {
		outDir = filepath.Join(dir, "tryon")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	jobs, err := findTryOnJobs(dir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	jsonOutput := mustGetBool(cmd, "json")
	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetDescription("Rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	start := time.Now()
	var (
		mu         sync.Mutex
		result     TryOnResult
		errorCount int64
		wg         sync.WaitGroup
	)
	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		wg.Add(1)
		go func(job tryOnJob) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outputs, err := r.render(cmd.Context(), job, styles, func(style string) string {
				return outputPath(outDir, job.photo, style)
			})

			mu.Lock()
			if err != nil {
				atomic.AddInt64(&errorCount, 1)
				result.Errors = append(result.Errors, err.Error())
				logging.Warn(logging.Fields{"photo": job.photo, "error": err.Error()}, "try-on failed")
			} else {
				result.Rendered = append(result.Rendered, outputs...)
			}
			mu.Unlock()

			if bar != nil {
				bar.Add(1)
			}
		}(job)
	}

	wg.Wait()

	if bar != nil {
		fmt.Println()
	}

	duration := time.Since(start)
	result.DurationMs = duration.Milliseconds()
	sort.Slice(result.Rendered, func(i, j int) bool { return result.Rendered[i].Output < result.Rendered[j].Output })
	sort.Strings(result.Errors)

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nTry-on complete!")
	fmt.Fprintf(out, "  Photos:   %d\n", len(jobs))
	fmt.Fprintf(out, "  Rendered: %d\n", len(result.Rendered))
	if errorCount > 0 {
		fmt.Fprintf(out, "  Errors:   %d\n", errorCount)
	}
	fmt.Fprintf(out, "  Output:   %s\n", outDir)
	fmt.Fprintf(out, "  Duration: %s\n", formatDuration(duration))
	return nil
}

// render composites every style onto one photo and writes the JPEGs.
func (r *renderer) render(ctx context.Context, job tryOnJob, styles []string, target func(style string) string) ([]TryOnOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	data, img, err := readPhoto(job.photo)
	if err != nil {
		return nil, err
	}

	var landmarks *overlay.LandmarkSet
	if job.landmarks != "" {
		landmarks, err = readLandmarks(job.landmarks)
	} else {
		landmarks, err = r.detector.Detect(ctx, data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(job.photo), err)
	}

	source, scale := overlay.Fit(img, constants.MaxImageSize)
	landmarks = landmarks.Scale(scale)

	outputs := make([]TryOnOutput, 0, len(styles))
	for _, style := range styles {
		out, err := r.renderStyle(source, landmarks, style, target(style))
		if err != nil {
			// A photo either gets every style or none.
			for _, o := range outputs {
				os.Remove(o.Output)
			}
			return nil, fmt.Errorf("%s: %w", filepath.Base(job.photo), err)
		}
		out.Photo = job.photo
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (r *renderer) renderStyle(source image.Image, landmarks *overlay.LandmarkSet, style, path string) (TryOnOutput, error) {
	frame, err := r.frames.Get(style)
	if err != nil {
		return TryOnOutput{}, err
	}
	composited, placement, err := overlay.Composite(source, frame, landmarks)
	if err != nil {
		return TryOnOutput{}, err
	}
	encoded, err := overlay.EncodeJPEG(composited)
	if err != nil {
		return TryOnOutput{}, err
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return TryOnOutput{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return TryOnOutput{Style: style, Output: path, Placement: placement}, nil
}

var photoExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true}

// findTryOnJobs lists the images in dir, pairing each with <name>.json.
func findTryOnJobs(dir string) ([]tryOnJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var jobs []tryOnJob
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !photoExtensions[ext] {
			continue
		}
		job := tryOnJob{photo: filepath.Join(dir, e.Name())}
		sidecar := strings.TrimSuffix(job.photo, filepath.Ext(job.photo)) + ".json"
		if _, err := os.Stat(sidecar); err == nil {
			job.landmarks = sidecar
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// outputPath is <dir>/<photo name>-<ext>-<style>.jpg. The source extension
// stays in the name so me.jpg and me.png do not overwrite each other.
func outputPath(dir, photo, style string) string {
	name := filepath.Base(photo)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if ext != "" {
		base += "-" + strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return filepath.Join(dir, base+"-"+style+".jpg")
}
