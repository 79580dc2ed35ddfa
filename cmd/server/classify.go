package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/config"
	"github.com/maintain_ai/backend/internal/models"
)

func classifyCmd() *cobra.Command {
	var imagePath string
	cmd := &cobra.Command{
		Use:   "classify [description]",
		Short: "Classify a report description and print the analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			classifier := newClassifier(cfg, logger, nil)

			req := ai.Request{Description: strings.Join(args, " ")}
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				dataURL := "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
				img, ok := ai.ParseDataURL(dataURL)
				if !ok {
					return fmt.Errorf("unsupported image %s", imagePath)
				}
				req.Image = img
			}

			out := classifier.Evaluate(cmd.Context(), req)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Source   ai.Source         `json:"source"`
				Analysis models.AIAnalysis `json:"analysis"`
			}{Source: out.Source, Analysis: out.Analysis})
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "optional image file sent with the description")
	return cmd
}
