package main

import (
	"fmt"
	"strings"

	"github.com/setanarut/toonify"
	"github.com/setanarut/toonify/utils"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Extract a palette swatch from an image",
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().StringP("input", "i", "", "Input image")
	paletteCmd.Flags().StringP("output", "o", "", "Output swatch PNG")
	paletteCmd.Flags().IntP("colors", "k", 7, "Number of colours")
	paletteCmd.Flags().String("method", "dominant", "Extraction method (dominant, kmeans)")
	paletteCmd.Flags().Int("tile", 64, "Swatch tile size in pixels")
	paletteCmd.MarkFlagRequired("input")
	paletteCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	k, _ := cmd.Flags().GetInt("colors")
	methodStr, _ := cmd.Flags().GetString("method")
	tile, _ := cmd.Flags().GetInt("tile")

	method, err := utils.ParsePaletteMethod(methodStr)
	if err != nil {
		return err
	}
	img, err := toonify.Load(inputPath)
	if err != nil {
		return err
	}

	palette := utils.ExtractPalette(img, k, method)
	utils.SortPaletteByBrightness(palette)
	if err := utils.SavePalette(palette, tile, outputPath); err != nil {
		return fmt.Errorf("saving palette: %w", err)
	}

	fmt.Printf("Palette (%s): %s\n", method, strings.Join(utils.Hex(palette), " "))
	fmt.Printf("Swatch: %s\n", outputPath)
	return nil
}
