package report

import (
	"context"
	"io"
	"net"
	"os"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPOptions configures the report uploader.
type FTPOptions struct {
	Host     string        `yaml:"host" mapstructure:"host"`
	User     string        `yaml:"user" mapstructure:"user"`
	Password string        `yaml:"password" mapstructure:"password"`
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// FTPUploader pushes generated report files to a shared FTP drop.
type FTPUploader struct {
	opts FTPOptions
}

// NewFTPUploader creates an uploader. Anonymous login is used when no user
// is configured.
func NewFTPUploader(opts FTPOptions) *FTPUploader {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.User == "" {
		opts.User = "anonymous"
		opts.Password = "anonymous@"
	}
	return &FTPUploader{opts: opts}
}

// Upload stores the local file on the server under the configured directory,
// keeping its base name. One connection per upload; report pushes are rare.
func (u *FTPUploader) Upload(ctx context.Context, localPath string) error {
	host := u.opts.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "21")
	}

	remote := path.Join(u.opts.Dir, path.Base(localPath))
	zap.L().Debug("ftp: uploading report",
		zap.String("host", host), zap.String("remote", remote))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(u.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp dial")
	}
	defer conn.Quit()

	if err := conn.Login(u.opts.User, u.opts.Password); err != nil {
		return eris.Wrap(err, "ftp login")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return eris.Wrapf(err, "open %s", localPath)
	}
	defer file.Close()

	if err := conn.Stor(remote, file); err != nil {
		return eris.Wrapf(err, "ftp store %s", remote)
	}
	return nil
}

// UploadReader stores arbitrary content under the given remote name.
func (u *FTPUploader) UploadReader(ctx context.Context, name string, r io.Reader) error {
	host := u.opts.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(u.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp dial")
	}
	defer conn.Quit()

	if err := conn.Login(u.opts.User, u.opts.Password); err != nil {
		return eris.Wrap(err, "ftp login")
	}

	remote := path.Join(u.opts.Dir, name)
	if err := conn.Stor(remote, r); err != nil {
		return eris.Wrapf(err, "ftp store %s", remote)
	}
	return nil
}
