package docker

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// engine is the part of the docker API a run session needs.
type engine interface {
	Ping(ctx context.Context) error
	Close() error
	ImageExists(ctx context.Context, ref string) bool
	ImagePull(ctx context.Context, ref string) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, cfg *container.Config, host *container.HostConfig) (string, error)
	ContainerStart(ctx context.Context, containerID string) error
	// ContainerRemove force-removes the container, killing whatever runs in it
	ContainerRemove(ctx context.Context, containerID string) error
	ExecCreate(ctx context.Context, containerID string, opts container.ExecOptions) (string, error)
	ExecAttach(ctx context.Context, execID string) (execStream, error)
	ExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
}

// execStream is an attached exec. Reads return the multiplexed stdout and
// stderr frames, writes go to the process stdin.
type execStream interface {
	io.ReadWriter
	CloseWrite() error
	Close() error
}

var _ engine = clientEngine{}

type clientEngine struct {
	cli *client.Client
}

func (e clientEngine) Ping(ctx context.Context) error {
	_, err := e.cli.Ping(ctx)
	return err
}

func (e clientEngine) Close() error {
	return e.cli.Close()
}

func (e clientEngine) ImageExists(ctx context.Context, ref string) bool {
	_, _, err := e.cli.ImageInspectWithRaw(ctx, ref)
	return err == nil
}

func (e clientEngine) ImagePull(ctx context.Context, ref string) (io.ReadCloser, error) {
	return e.cli.ImagePull(ctx, ref, image.PullOptions{})
}

func (e clientEngine) ContainerCreate(ctx context.Context, cfg *container.Config, host *container.HostConfig) (string, error) {
	resp, err := e.cli.ContainerCreate(ctx, cfg, host, nil, nil, "")
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (e clientEngine) ContainerStart(ctx context.Context, containerID string) error {
	return e.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

func (e clientEngine) ContainerRemove(ctx context.Context, containerID string) error {
	return e.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
}

func (e clientEngine) ExecCreate(ctx context.Context, containerID string, opts container.ExecOptions) (string, error) {
	resp, err := e.cli.ContainerExecCreate(ctx, containerID, opts)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (e clientEngine) ExecAttach(ctx context.Context, execID string) (execStream, error) {
	resp, err := e.cli.ContainerExecAttach(ctx, execID, container.ExecStartOptions{})
	if err != nil {
		return nil, err
	}
	return &hijackedStream{resp}, nil
}

func (e clientEngine) ExecInspect(ctx context.Context, execID string) (container.ExecInspect, error) {
	return e.cli.ContainerExecInspect(ctx, execID)
}

type hijackedStream struct {
	types.HijackedResponse
}

func (s hijackedStream) Read(p []byte) (int, error) {
	return s.Reader.Read(p)
}

func (s hijackedStream) Write(p []byte) (int, error) {
	return s.Conn.Write(p)
}

func (s hijackedStream) Close() error {
	s.HijackedResponse.Close()
	return nil
}
