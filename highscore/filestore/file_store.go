package filestore

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"os/user"
	"path"
	"sync"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/pkg/errors"
)

const fileName = "highscore.json"

func defaultDir() string {
	return path.Join(homeDir(), ".battlesnake/arcade")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a store that keeps the high score in a JSON file
// inside directory. An empty directory selects ~/.battlesnake/arcade.
func NewFileStore(directory string) highscore.Store {
	if directory == "" {
		directory = defaultDir()
	}
	return &fileStore{directory: directory}
}

type fileStore struct {
	lock      sync.Mutex
	directory string
}

func (fs *fileStore) filePath() string {
	return path.Join(fs.directory, fileName)
}

func (fs *fileStore) Get(ctx context.Context) (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.read()
}

func (fs *fileStore) Put(ctx context.Context, score int) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	// A corrupt file is overwritten rather than blocking new scores.
	current, err := fs.read()
	if err == nil && score <= current {
		return nil
	}
	return fs.write(score)
}

func (fs *fileStore) read() (int, error) {
	data, err := ioutil.ReadFile(fs.filePath())
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "unable to read high score file")
	}

	scores := map[string]int{}
	if err := json.Unmarshal(data, &scores); err != nil {
		return 0, errors.Wrap(err, "unable to parse high score file")
	}
	return scores[highscore.Key], nil
}

// write replaces the file through a rename so readers never see a partial
// document.
func (fs *fileStore) write(score int) error {
	if err := os.MkdirAll(fs.directory, 0755); err != nil {
		return errors.Wrap(err, "unable to create high score directory")
	}

	data, err := json.Marshal(map[string]int{highscore.Key: score})
	if err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(fs.directory, fileName+".*")
	if err != nil {
		return errors.Wrap(err, "unable to create high score file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "unable to write high score file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "unable to write high score file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), fs.filePath()), "unable to replace high score file")
}
