package storage

import (
	"context"
	"fmt"
)

// Options selects and configures a driver.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Open constructs the Store selected by opts. An empty driver defaults to fs.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(opts.FSRoot)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
