package supabase

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"clementus360/study-assistant/types"

	storage_go "github.com/supabase-community/storage-go"
)

var statusPattern = regexp.MustCompile(`response status code (\d+)`)

// authError turns a gotrue failure ("response status code 400: {...}") into
// a RequestFailed carrying the server's message.
func authError(err error) error {
	if err == nil {
		return nil
	}
	text := err.Error()
	match := statusPattern.FindStringSubmatch(text)
	if match == nil {
		return err
	}
	status, _ := strconv.Atoi(match[1])

	message := ""
	if i := strings.Index(text, "{"); i >= 0 {
		var body struct {
			Msg              string `json:"msg"`
			Message          string `json:"message"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal([]byte(text[i:]), &body) == nil {
			for _, m := range []string{body.Msg, body.Message, body.ErrorDescription} {
				if m != "" {
					message = m
					break
				}
			}
		}
	}
	if message == "" {
		message = "Request failed (" + match[1] + ")."
	}
	return &types.RequestFailed{Status: status, Message: message}
}

func storageError(err error) error {
	var se *storage_go.StorageError
	if !errors.As(err, &se) {
		return err
	}
	message := se.Message
	if message == "" {
		message = "Upload failed."
	}
	return &types.RequestFailed{Status: se.Status, Message: message}
}
