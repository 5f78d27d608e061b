package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/colour"
	"github.com/jmylchreest/brandkit/internal/image"
	"github.com/jmylchreest/brandkit/internal/render"
	httputil "github.com/jmylchreest/brandkit/internal/util/http"
)

var (
	// Extract command flags
	extractFlags       extractSettings
	extractFormat      formatFlag
	extractOutput      string
	extractShowPreview bool
	extractSwatch      string
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image|url>",
		Short: "Extract a brand palette from an image",
		Long: `Extract a curated brand palette from an image.

Colours are clustered, named and ranked by coverage. Curated palettes skip
near-white, near-black and near-duplicate colours; if too few distinct colours
remain, the most frequent colours are returned instead.

Supported image formats: JPEG, PNG, GIF, WebP. Remote images must use HTTPS.

Examples:
  # Extract 5 colours (default)
  brandkit extract logo.png

  # Extract 8 colours as JSON
  brandkit extract -s 8 -f json logo.png

  # Raw clustered colours, no curation
  brandkit extract --raw -s 10 photo.jpg

  # Save a swatch image alongside the palette
  brandkit extract --swatch palette.png https://example.com/logo.png`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	extractFlags.register(cmd)
	extractFormat = formatTable
	cmd.Flags().VarP(&extractFormat, "format", "f", "output format (table, hex, json)")
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&extractShowPreview, "preview", false, "show colour previews (default: on when stdout is a colour terminal)")
	cmd.Flags().StringVar(&extractSwatch, "swatch", "", "also write a PNG swatch of the palette to this path")

	return cmd
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	logger := newLogger(cmd, cmd.ErrOrStderr()).Named("extract")

	if err := extractFlags.validate(); err != nil {
		return err
	}
	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	logger.Debug("loading image", "path", imagePath)
	img, err := image.NewSmartLoader(httputil.FetchOptions{}).Load(cmd.Context(), imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	palette, err := extractFlags.extract(cmd, img, logger)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Info("extracted palette", "colours", palette.Len(), "fallback", palette.FellBack)
	if palette.FellBack {
		logger.Warn("too few distinct colours; palette includes near-duplicates or near-white/black")
	}

	preview := extractShowPreview
	if !cmd.Flags().Changed("preview") {
		preview = extractOutput == "" && colour.SupportsANSIColours(os.Stdout)
	}

	output, err := formatPalette(palette, string(extractFormat), preview)
	if err != nil {
		return err
	}

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, []byte(output), 0o644); err != nil { // #nosec G306 -- palette output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("wrote palette", "path", extractOutput)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), output)
	}

	if extractSwatch != "" {
		if err := render.SavePNG(palette, render.DefaultSwatchOptions(), extractSwatch); err != nil {
			return err
		}
		logger.Info("wrote swatch", "path", extractSwatch)
	}

	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case formatTable:
		return paletteTable(palette, showPreview).Render(), nil
	case formatHex:
		return formatHexList(palette, showPreview), nil
	case formatJSON:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(validFormats(), ", "))
	}
}

// paletteTable lays out one row per colour.
func paletteTable(palette *colour.Palette, showPreview bool) *Table {
	headers := []string{"#", "Hex", "Name", "Usage", "Share", "Brightness"}
	if showPreview {
		headers = append([]string{""}, headers...)
	}

	table := NewTable(headers)
	offset := len(headers) - 6
	for _, col := range []int{0, 4, 5} {
		table.AlignRight(offset + col)
	}
	for i, c := range palette.All() {
		row := []string{
			fmt.Sprintf("%d", i+1),
			c.Hex,
			c.Name,
			string(c.Usage),
			fmt.Sprintf("%.2f%%", c.Percentage),
			fmt.Sprintf("%.1f", c.Brightness),
		}
		if showPreview {
			row = append([]string{colour.ColourPreview(c.RGB, 4)}, row...)
		}
		table.AddRow(row)
	}
	return table
}

// formatHexList writes one hex code per line, optionally on its own colour.
func formatHexList(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, c := range palette.All() {
		if showPreview {
			sb.WriteString(colour.ColourPreviewWithText(c.RGB, c.Hex, 9) + "\n")
			continue
		}
		sb.WriteString(c.Hex + "\n")
	}
	return sb.String()
}
