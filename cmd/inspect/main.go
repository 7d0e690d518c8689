package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"lensinspect/config"
	"lensinspect/internal/domain/entity"
	"lensinspect/internal/infrastructure/report"
	"lensinspect/internal/infrastructure/vision"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// newRootCmd собирает CLI для проверки снимка линзы без бота.
func newRootCmd() *cobra.Command {
	var (
		blurSize  int
		threshold int
		jsonOut   bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Inspect a lens image for surface defects",
		Long: `Inspect runs the lens inspection pipeline on a single image file
and prints the verdict and the defect list.

The pipeline segments the illuminated lens area, corrects uneven
illumination, extracts defect candidates, classifies each defect by
contour geometry and issues a pass/fail verdict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			params := cfg.Pipeline
			if cmd.Flags().Changed("blur") {
				params.BlurSize = blurSize
			}
			if cmd.Flags().Changed("threshold") {
				params.Threshold = threshold
			}

			imageData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			pipeline := vision.NewPipeline()
			result, err := pipeline.Inspect(context.Background(), imageData, params)
			if err != nil {
				return err
			}

			if outPath != "" {
				annotated, err := pipeline.Annotate(imageData, params, result)
				if err != nil {
					return fmt.Errorf("annotate: %w", err)
				}
				if err := os.WriteFile(outPath, annotated, 0o644); err != nil {
					return fmt.Errorf("write annotated image: %w", err)
				}
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(inspectReport(result))
			}

			fmt.Fprint(cmd.OutOrStdout(), report.NewTextBuilder().Summary(result))
			if !result.Verdict.Pass {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&blurSize, "blur", entity.DefaultBlurSize, "background estimation kernel size")
	cmd.Flags().IntVar(&threshold, "threshold", entity.DefaultThreshold, "defect candidate threshold")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "write the annotated image to this path (JPEG)")

	return cmd
}

// jsonReport — сериализуемая форма результата для флага --json.
type jsonReport struct {
	ImageWidth  int          `json:"image_width"`
	ImageHeight int          `json:"image_height"`
	LensFound   bool         `json:"lens_found"`
	Pass        bool         `json:"pass"`
	Ratio       float64      `json:"defect_area_ratio"`
	Defects     []jsonDefect `json:"defects"`
}

type jsonDefect struct {
	Type        string  `json:"type"`
	Area        float64 `json:"area"`
	AspectRatio float64 `json:"aspect_ratio"`
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

func inspectReport(result *entity.InspectionResult) jsonReport {
	defects := make([]jsonDefect, 0, len(result.Defects))
	for _, d := range result.Defects {
		defects = append(defects, jsonDefect{
			Type:        d.Type.String(),
			Area:        d.Area,
			AspectRatio: d.AspectRatio,
			CenterX:     d.CenterX,
			CenterY:     d.CenterY,
			X:           d.X,
			Y:           d.Y,
			Width:       d.Width,
			Height:      d.Height,
		})
	}

	return jsonReport{
		ImageWidth:  result.ImageWidth,
		ImageHeight: result.ImageHeight,
		LensFound:   result.LensFound,
		Pass:        result.Verdict.Pass,
		Ratio:       result.Verdict.DefectAreaRatio,
		Defects:     defects,
	}
}
