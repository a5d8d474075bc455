package main

import (
	"fmt"
	"os"

	"github.com/setanarut/toonify"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Print image dimensions and the working size after resize",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	identifyCmd.Flags().Int("max-dimension", toonify.DefaultConfig().MaxDimension, "Longer side after resize")
	identifyCmd.Flags().Bool("upscale", true, "Enlarge inputs smaller than max-dimension")
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	maxDim, _ := cmd.Flags().GetInt("max-dimension")
	upscale, _ := cmd.Flags().GetBool("upscale")

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := toonify.Load(path)
	if err != nil {
		return err
	}
	w, h := toonify.ResizedSize(img.W, img.H, maxDim, upscale)

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Dimensions: %d x %d\n", img.W, img.H)
	fmt.Printf("Resized:    %d x %d (max %d)\n", w, h, maxDim)
	fmt.Printf("File size:  %d bytes (%.1f MB)\n", st.Size(), float64(st.Size())/(1024*1024))
	return nil
}
