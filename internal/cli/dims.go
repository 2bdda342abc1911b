package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// newDimensionsCmd creates the dimensions command listing the fixed output
// aspect ratios.
func newDimensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dimensions",
		Short: "List the built-in banner dimensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Dimensions"))
			printNewline()
			for _, d := range banner.Dimensions() {
				printKeyValue(string(d.Label), fmt.Sprintf("%dx%d  %s", d.Width, d.Height, StyleDim.Render(d.Description)))
			}
			printNewline()
			printNextStep("Compose one", "bannerforge compose event.toml -d square")
			return nil
		},
	}
}

// newBackgroundsCmd creates the backgrounds command listing the preset
// background options.
func newBackgroundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backgrounds",
		Short: "List the built-in background presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Backgrounds"))
			printNewline()
			for _, bg := range banner.Backgrounds() {
				printKeyValue(bg.ID, fmt.Sprintf("%-12s %s  %s", bg.Name, StyleDim.Render(string(bg.Kind)), StyleDim.Render(bg.Value)))
			}
			printKeyValue(banner.BackgroundCustomID, "user-supplied color or image "+StyleDim.Render("(custom_background in the document)"))
			return nil
		},
	}
}
