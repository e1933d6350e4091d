package flagvalue

import (
	"io"
	"os"

	"braces.dev/errtrace"
)

// Stdio is the file name that selects the fallback writer
// of a [FileSwitch].
const Stdio = "-"

// FileSwitch is a [Switch] naming a file to write to.
//
//	-x          write to the fallback
//	-x=-        write to the fallback
//	-x=path     create path and write to it
type FileSwitch struct{ Switch }

// Create opens the destination selected by this flag,
// and returns a writer to it and a function to close it.
// A switch that is off writes to [io.Discard].
func (fs *FileSwitch) Create(fallback io.Writer) (w io.Writer, close func() error, err error) {
	switch name := fs.Value(Stdio); name {
	case "":
		return io.Discard, nopClose, nil
	case Stdio:
		return fallback, nopClose, nil
	default:
		f, err := os.Create(name)
		if err != nil {
			return nil, nil, errtrace.Wrap(err)
		}
		return f, f.Close, nil
	}
}

func nopClose() error { return nil }
