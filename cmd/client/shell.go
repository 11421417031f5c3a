package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pyropy/chunkfs/core/client"
	"github.com/pyropy/chunkfs/core/model"
)

type fileTransfer interface {
	UploadFile(ctx context.Context, localPath, fileName, namespace string) (*client.WriteResult, error)
	DownloadFile(ctx context.Context, fileName, namespace, destDir string) (string, *client.ReadResult, error)
}

// Shell is the line-oriented upload/download loop.
type Shell struct {
	files       fileTransfer
	in          *bufio.Scanner
	out         io.Writer
	downloadDir string
	// prompt is off when input is piped so scripted sessions print results only
	prompt bool
}

func NewShell(files fileTransfer, in io.Reader, out io.Writer, downloadDir string, prompt bool) *Shell {
	return &Shell{
		files:       files,
		in:          bufio.NewScanner(in),
		out:         out,
		downloadDir: downloadDir,
		prompt:      prompt,
	}
}

// Run reads commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	for {
		cmd, ok := s.ask("Enter command (upload/download/exit): ")
		if !ok {
			return s.in.Err()
		}

		switch cmd {
		case "":
			continue
		case "exit":
			return nil
		case "upload", "download":
			name, ok := s.ask("Enter filename: ")
			if !ok {
				return s.in.Err()
			}

			namespace, ok := s.ask("Enter namespace: ")
			if !ok {
				return s.in.Err()
			}

			var err error
			if cmd == "upload" {
				err = s.upload(ctx, name, namespace)
			} else {
				err = s.download(ctx, name, namespace)
			}

			if err != nil {
				fmt.Fprintf(s.out, "Operation failed: %v\n", err)
			}
		default:
			fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
		}
	}
}

func (s *Shell) ask(prompt string) (string, bool) {
	if s.prompt {
		fmt.Fprint(s.out, prompt)
	}

	if !s.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) upload(ctx context.Context, name, namespace string) error {
	result, err := s.files.UploadFile(ctx, localSource(name, namespace), name, namespace)
	if err != nil {
		return err
	}

	reportUpload(s.out, result)
	return nil
}

func (s *Shell) download(ctx context.Context, name, namespace string) error {
	path, result, err := s.files.DownloadFile(ctx, name, namespace, s.downloadDir)
	if err != nil {
		return err
	}

	reportDownload(s.out, model.NewFileKey(namespace, name), path, result)
	return nil
}
