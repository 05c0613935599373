package cmd

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/makeup"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a face shape from landmarks",
	Long: `Classify the face shape from a 68-point landmark file and print the
recommended frame styles. With --photo the skin tone is sampled as well
and makeup suggestions are printed.

The landmark file holds [[x, y], ...] pairs, [{"x":..,"y":..}, ...]
objects or {"points": [...]}.`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().String("landmarks", "", "Landmark JSON file (required)")
	classifyCmd.Flags().String("photo", "", "Photo to sample the skin tone from")
	classifyCmd.Flags().Bool("json", false, "Output as JSON")
	classifyCmd.MarkFlagRequired("landmarks")
}

// ClassifyResult is the classify command output.
type ClassifyResult struct {
	Shape           faceshape.Shape        `json:"shape"`
	Measurements    faceshape.Measurements `json:"measurements"`
	Recommendations []string               `json:"recommendations"`
	Makeup          *makeup.Recommendation `json:"makeup,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	thresholds, err := loadThresholds(cfg)
	if err != nil {
		return err
	}

	landmarks, err := readLandmarks(mustGetString(cmd, "landmarks"))
	if err != nil {
		return err
	}

	result, err := classify(landmarks, thresholds)
	if err != nil {
		return err
	}

	if photoPath := mustGetString(cmd, "photo"); photoPath != "" {
		_, img, err := readPhoto(photoPath)
		if err != nil {
			return err
		}
		tone, err := makeup.SampleSkinTone(img, landmarks)
		if err != nil {
			return fmt.Errorf("sampling skin tone: %w", err)
		}
		rec := makeup.Recommend(result.Shape, tone)
		result.Makeup = &rec
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(cmd.OutOrStdout(), result)
	}
	printClassifyResult(cmd.OutOrStdout(), result)
	return nil
}

func classify(landmarks *overlay.LandmarkSet, thresholds faceshape.Thresholds) (*ClassifyResult, error) {
	shape, measurements, err := faceshape.ClassifyLandmarks(landmarks, thresholds)
	if err != nil {
		return nil, fmt.Errorf("classifying face: %w", err)
	}
	return &ClassifyResult{
		Shape:           shape,
		Measurements:    measurements,
		Recommendations: faceshape.RecommendOrDefault(shape),
	}, nil
}

func printClassifyResult(w io.Writer, r *ClassifyResult) {
	fmt.Fprintf(w, "Face shape: %s\n", r.Shape)
	fmt.Fprintf(w, "  Length/width:   %.2f\n", r.Measurements.LengthToWidth)
	fmt.Fprintf(w, "  Jaw/cheekbone:  %.2f\n", r.Measurements.JawToCheek)
	fmt.Fprintf(w, "  Forehead/jaw:   %.2f\n", r.Measurements.ForeheadToJaw)
	fmt.Fprintf(w, "Recommended frames: %s\n", strings.Join(r.Recommendations, ", "))

	if r.Makeup == nil {
		return
	}
	fmt.Fprintf(w, "\nSkin tone: %s\n", r.Makeup.Tone)
	fmt.Fprintf(w, "  Blush:     %s\n", strings.Join(r.Makeup.Blush.Colors, ", "))
	fmt.Fprintf(w, "  Eyeshadow: %s\n", strings.Join(r.Makeup.Eyeshadow.Colors, ", "))
	fmt.Fprintf(w, "  Lipstick:  %s\n", strings.Join(r.Makeup.Lipstick.Colors, ", "))
	for _, tip := range r.Makeup.General {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}

// readLandmarks loads a landmark JSON file.
func readLandmarks(path string) (*overlay.LandmarkSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading landmarks: %w", err)
	}
	landmarks, err := detect.ParseLandmarks(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return landmarks, nil
}

// readPhoto reads and decodes an image file.
func readPhoto(path string) ([]byte, image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading photo: %w", err)
	}
	img, _, err := overlay.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return data, img, nil
}
