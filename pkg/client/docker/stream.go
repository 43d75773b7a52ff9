package docker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/pkg/jsonmessage"
)

// decodeBuildStream decodes the JSON message stream the daemon emits during
// build and push operations, forwarding human-readable output to writer.
// The daemon reports failures inside the stream rather than via HTTP status,
// so the stream must be drained to detect them.
func decodeBuildStream(reader io.Reader, writer io.Writer) error {
	decoder := json.NewDecoder(reader)

	for {
		var message jsonmessage.JSONMessage

		err := decoder.Decode(&message)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("decode daemon stream: %w", err)
		}

		if message.Error != nil {
			return fmt.Errorf("daemon reported failure: %w", message.Error)
		}

		if message.Stream != "" {
			_, _ = io.WriteString(writer, message.Stream)
		} else if message.Status != "" {
			_, _ = fmt.Fprintln(writer, message.Status)
		}
	}
}
