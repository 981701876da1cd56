// Package profiles stores the connection profiles of tarn: for each
// profile name, where the platform API lives and how to trust it.
package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"

	"github.com/tarnlab/tarn/cmd/tarn/config/open"
)

var ErrProfileStoreNotFound = errors.New("profile file is not found")
var ErrCannotCreateConfig = errors.New("cannot create profile file")
var ErrCannotUpdateConfig = errors.New("cannot update profile file")
var ErrProfileInvalid = errors.New("tarn profile is invalid")

// ProfileStore maps profile names to TarnProfiles.
type ProfileStore map[string]*TarnProfile

type TarnCert struct {
	// base64 encoded CA certificate
	CA string `yaml:"ca,omitempty"`
}

// TarnProfile tells how to reach one Tarn platform deployment.
type TarnProfile struct {
	// endpoint of the platform API
	ApiRoot string `yaml:"apiRoot"`

	Cert TarnCert `yaml:"cert,omitempty"`
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func verifyPEM(b64cert string) bool {
	bin, err := base64.StdEncoding.DecodeString(b64cert)
	if err != nil {
		return false
	}
	blk, _ := pem.Decode(bin)
	return blk != nil
}

// Verify returns nil for a usable profile, ErrProfileInvalid otherwise.
func (p *TarnProfile) Verify() error {
	if !verifyUrl(p.ApiRoot) {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Cert.CA != "" && !verifyPEM(p.Cert.CA) {
		return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
	}

	return nil
}

// LoadProfileStore loads the profile store from a file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

// Unmarshal parses a profile store out of yaml bytes.
func Unmarshal(buf []byte) (ProfileStore, error) {
	ret := map[string]*TarnProfile{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Save writes the profile store to path, mode 0600.
//
// The previous content is copied aside to path + ".backup" first; the
// backup stays only if writing the new content fails halfway.
func (ps *ProfileStore) Save(path string) error {
	saving := false

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	bkpath := path + ".backup"
	bk, err := open.NewSafeFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !saving {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	if err == nil {
		// an existing file may have loose permissions. force 0600.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			return err
		}
	} else {
		if os.IsPermission(err) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s",
				ErrCannotUpdateConfig, path,
			)
		} else if os.IsNotExist(err) {
			f_, err_ := open.NewSafeFile(path)
			if err_ != nil {
				return fmt.Errorf(
					"%w: cannot create a file at %s",
					ErrCannotCreateConfig, path,
				)
			}
			f = f_
		} else {
			return err
		}
	}
	defer f.Close()

	if err := bk.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	saving = true
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}
	_, err = f.Write(buf)

	if err == nil {
		saving = false
	}
	return err
}
