package lcd

// clip truncates line to the display width in place, no allocation.
func clip(line []byte, columns int) []byte {
	if len(line) > columns {
		return line[:columns]
	}
	return line
}
