package render

import (
	"image"
	"image/draw"
	"sort"
)

// Paginate slices a single tall raster into successive fixed-size pages.
// Every entry in breaks forces the content at that offset onto a fresh page
// regardless of how much of the current page is filled. Within a segment the
// vertical offset advances by exactly one page height per page; the final
// slice of a segment may cover only part of its page, with the remainder left
// white. Content keeps left-aligned full-width placement on every page.
func Paginate(tall image.Image, pageW, pageH int, breaks []int) []image.Image {
	bounds := tall.Bounds()
	total := bounds.Dy()
	if total == 0 || pageH <= 0 {
		return nil
	}

	// Normalize break offsets: sorted, in range, deduplicated.
	cuts := []int{0}
	sorted := append([]int(nil), breaks...)
	sort.Ints(sorted)
	for _, b := range sorted {
		if b > cuts[len(cuts)-1] && b < total {
			cuts = append(cuts, b)
		}
	}
	cuts = append(cuts, total)

	var pages []image.Image
	for i := 0; i < len(cuts)-1; i++ {
		start, end := cuts[i], cuts[i+1]
		for y := start; y < end; y += pageH {
			sliceH := end - y
			if sliceH > pageH {
				sliceH = pageH
			}
			page := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
			draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)
			srcRect := image.Rect(bounds.Min.X, bounds.Min.Y+y, bounds.Min.X+pageW, bounds.Min.Y+y+sliceH)
			draw.Draw(page, image.Rect(0, 0, pageW, sliceH), tall, srcRect.Min, draw.Src)
			pages = append(pages, page)
		}
	}
	return pages
}

// PageCountFor reports how many pages Paginate will produce for a raster of
// the given height. Exposed for the slicing math tests.
func PageCountFor(total, pageH int, breaks []int) int {
	if total == 0 || pageH <= 0 {
		return 0
	}
	cuts := []int{0}
	sorted := append([]int(nil), breaks...)
	sort.Ints(sorted)
	for _, b := range sorted {
		if b > cuts[len(cuts)-1] && b < total {
			cuts = append(cuts, b)
		}
	}
	cuts = append(cuts, total)

	count := 0
	for i := 0; i < len(cuts)-1; i++ {
		segment := cuts[i+1] - cuts[i]
		count += (segment + pageH - 1) / pageH
	}
	return count
}
