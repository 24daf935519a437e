package step

import "sort"

const watermarkBase = "https://rf-storage.flyxmarketing.com/watermarks/"

// WatermarkVariant describes one overlay asset and its placement relative to
// the frame.
type WatermarkVariant struct {
	ID            int
	AssetURL      string
	WidthFraction float64
	// The overlay's bottom edge sits MarginPixels + MarginFraction*height above
	// the frame bottom. Negative values push it below the edge.
	MarginPixels   int
	MarginFraction float64
}

// Width returns the overlay width for a frame, rounded down to an even number.
func (v WatermarkVariant) Width(frameWidth int) int {
	return int(float64(frameWidth)*v.WidthFraction) &^ 1
}

func (v WatermarkVariant) Margin(frameHeight int) int {
	return v.MarginPixels + int(v.MarginFraction*float64(frameHeight))
}

var watermarks = map[int]WatermarkVariant{
	1:  {ID: 1, AssetURL: watermarkBase + "watermark_v1.mov", WidthFraction: 0.75, MarginFraction: -0.03},
	2:  {ID: 2, AssetURL: watermarkBase + "watermark_v2.mov", WidthFraction: 0.55, MarginFraction: -0.03},
	6:  {ID: 6, AssetURL: watermarkBase + "watermark_20251126_v6.mov", WidthFraction: 0.75, MarginPixels: 70},
	7:  {ID: 7, AssetURL: watermarkBase + "watermark_20251126_v7.mov", WidthFraction: 0.75, MarginPixels: 70},
	8:  {ID: 8, AssetURL: watermarkBase + "watermark_20251126_v8.mov", WidthFraction: 0.75, MarginPixels: 70},
	9:  {ID: 9, AssetURL: watermarkBase + "watermark_20251201_v1.mov", WidthFraction: 0.75, MarginPixels: 70},
	10: {ID: 10, AssetURL: watermarkBase + "watermark_20251201_v2.mov", WidthFraction: 0.75, MarginPixels: 70},
	11: {ID: 11, AssetURL: watermarkBase + "watermark_20251201_v3.mov", WidthFraction: 0.75, MarginPixels: 70},
}

func LookupWatermark(id int) (WatermarkVariant, bool) {
	v, ok := watermarks[id]
	return v, ok
}

func WatermarkIDs() []int {
	ids := make([]int, 0, len(watermarks))
	for id := range watermarks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
