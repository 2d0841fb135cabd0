package glyphatlas_test

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/texture"
)

func Example() {
	tex := texture.New(256, 0)
	atlas, err := glyphatlas.New(tex)
	if err != nil {
		panic(err)
	}

	if err := atlas.BeginFrame(); err != nil {
		panic(err)
	}
	for _, id := range []glyphatlas.CacheID{
		{Font: 1, Glyph: 'a', Size: 16},
		{Font: 1, Glyph: 'b', Size: 16},
		{Font: 1, Glyph: 'a', Size: 16},
	} {
		res, err := atlas.Reserve(id, 10, 16)
		if errors.Is(err, glyphatlas.ErrAtlasFull) {
			continue
		}
		if err != nil {
			panic(err)
		}
		if res.New {
			_ = atlas.UploadGlyph(res, func(x, y int) byte { return 0xff })
		}
		fmt.Println(string(rune(id.Glyph)), res.Rect, res.New)
	}
	atlas.EndFrame()

	// Output:
	// a Rect(1,1 10x16) true
	// b Rect(12,1 10x16) true
	// a Rect(1,1 10x16) false
}
