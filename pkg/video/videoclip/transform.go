package videoclip

// Transform is a caller supplied post processing step. It must
// return a new clip rather than altering the one it was given.
type Transform func(Clip) Clip

// Scale multiplies every pixel value by factor, Scale(1.0/255)
// maps decoded 8 bit values into [0, 1].
func Scale(factor float32) Transform {
	return func(c Clip) Clip {
		frames := make([]Frame, len(c.frames))
		for i, f := range c.frames {
			data := make([]float32, len(f.data))
			for j, v := range f.data {
				data[j] = v * factor
			}
			frames[i] = Frame{shape: f.shape, data: data}
		}
		return Clip{frames: frames}
	}
}
