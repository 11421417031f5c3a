package main

import (
	"fmt"
	"io"
	"os"
	fp "path/filepath"

	"github.com/pyropy/chunkfs/core/client"
	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:  "dfs",
		Usage: "upload and download files on a chunkfs cluster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "master-addr",
				Usage: "master address, overrides MASTER_ADDR (default localhost:9000)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "local catalog directory, overrides STORE_PATH (default .dfs)",
			},
			&cli.IntFlag{
				Name:  "chunk-size",
				Usage: "chunk size in bytes, overrides CHUNK_SIZE (default 1048576)",
			},
		},
		Commands: []*cli.Command{uploadCmd, downloadCmd, listCmd, shellCmd},
		Action:   runShell,
		Reader:   in,
		Writer:   out,
	}
}

// newClient loads the env config and applies any global flags on top of it.
func newClient(ctx *cli.Context) (*client.Client, *client.Config, error) {
	cfg, err := client.GetConfig()
	if err != nil {
		return nil, nil, err
	}

	if ctx.IsSet("master-addr") {
		cfg.Master.Addr = ctx.String("master-addr")
	}

	if ctx.IsSet("store") {
		cfg.Store.Path = ctx.String("store")
	}

	if ctx.IsSet("chunk-size") {
		cfg.Chunks.Size = ctx.Int("chunk-size")
	}

	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, nil, err
	}

	c, err := client.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	return c, cfg, nil
}

var uploadCmd = &cli.Command{
	Name:  "upload",
	Usage: "Upload a local file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Required: true,
			Usage:    "File name on dfs",
		},
		&cli.StringFlag{
			Name:     "namespace",
			Required: true,
			Usage:    "Namespace on dfs",
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "Local file to upload (default <namespace>/<name>)",
		},
	},
	Action: func(ctx *cli.Context) error {
		c, _, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		name, namespace := ctx.String("name"), ctx.String("namespace")
		localPath := ctx.String("file")
		if localPath == "" {
			localPath = localSource(name, namespace)
		}

		result, err := c.UploadFile(ctx.Context, localPath, name, namespace)
		if err != nil {
			return err
		}

		reportUpload(ctx.App.Writer, result)
		return nil
	},
}

var downloadCmd = &cli.Command{
	Name:  "download",
	Usage: "Download a file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Required: true,
			Usage:    "File name on dfs",
		},
		&cli.StringFlag{
			Name:     "namespace",
			Required: true,
			Usage:    "Namespace on dfs",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Directory to write to, overrides DOWNLOAD_DIR (default download)",
		},
	},
	Action: func(ctx *cli.Context) error {
		c, cfg, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		destDir := cfg.Download.Dir
		if ctx.IsSet("out") {
			destDir = ctx.String("out")
		}

		name, namespace := ctx.String("name"), ctx.String("namespace")
		path, result, err := c.DownloadFile(ctx.Context, name, namespace, destDir)
		if err != nil {
			return err
		}

		reportDownload(ctx.App.Writer, model.NewFileKey(namespace, name), path, result)
		return nil
	},
}

var listCmd = &cli.Command{
	Name:  "list",
	Usage: "List files uploaded from this client",
	Action: func(ctx *cli.Context) error {
		c, _, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		files, err := c.ListFiles(ctx.Context)
		if err != nil {
			return err
		}

		for _, file := range files {
			fmt.Fprintf(ctx.App.Writer, "%s\t%d bytes\t%d chunks\t%s\n",
				file.Key, file.Size, len(file.Chunks), file.UploadedAt.Format("2006-01-02 15:04:05"))
		}

		return nil
	},
}

var shellCmd = &cli.Command{
	Name:   "shell",
	Usage:  "Interactive upload/download loop",
	Action: runShell,
}

func runShell(ctx *cli.Context) error {
	c, cfg, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	prompt := false
	if f, ok := ctx.App.Reader.(*os.File); ok {
		prompt = term.IsTerminal(int(f.Fd()))
	}

	return NewShell(c, ctx.App.Reader, ctx.App.Writer, cfg.Download.Dir, prompt).Run(ctx.Context)
}

// localSource is where an upload reads from when no file is given.
func localSource(name, namespace string) string {
	return fp.Join(namespace, name)
}

func reportUpload(out io.Writer, result *client.WriteResult) {
	fmt.Fprintf(out, "Uploaded %s (%d bytes, %d chunks)\n", result.Key, result.Size, len(result.Chunks))

	if under := result.UnderReplicated(); len(under) > 0 {
		fmt.Fprintf(out, "Warning: chunks %v of %s are under-replicated\n", under, result.Key)
	}
}

func reportDownload(out io.Writer, key model.FileKey, path string, result *client.ReadResult) {
	fmt.Fprintf(out, "Downloaded %s to %s (%d bytes)\n", key, path, len(result.Data))

	if !result.Complete() {
		fmt.Fprintf(out, "Warning: chunks %v of %s could not be read and are missing from the file\n", result.MissingChunks, key)
	}
}
