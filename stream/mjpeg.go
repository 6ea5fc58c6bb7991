package stream

import (
	"fmt"
	"io"
	"net/http"
)

// Boundary separates the parts of the video feed.
const Boundary = "frame"

// ContentType is the media type of the video feed response.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// WritePart writes one JPEG as a multipart part:
// "--frame\r\nContent-Type: image/jpeg\r\n\r\n<jpeg>\r\n".
func WritePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\n\r\n", Boundary); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// writeFlushed writes a part and pushes it to the client right away.
func writeFlushed(w http.ResponseWriter, rc *http.ResponseController, jpeg []byte) error {
	if err := WritePart(w, jpeg); err != nil {
		return err
	}
	return rc.Flush()
}
