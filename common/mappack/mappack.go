package mappack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/types/mapcontainer"
)

// Names a track can take inside a pack, by preference
const (
	TrackJSON   = "track.json"
	TrackText   = "track.txt"
	TrackBinary = "track.bin"
)

type MappackInMemoryArchive struct {
	Zip   *zip.ReadCloser
	Files map[string]io.ReadCloser
}

func UnzipAndGetHandles(filename string) (*MappackInMemoryArchive, error) {
	mappackInMemoryArchive := &MappackInMemoryArchive{
		Files: make(map[string]io.ReadCloser),
	}

	reader, err := zip.OpenReader(filename)

	if err != nil {
		return nil, errors.Wrapf(err, "Could not open archive (%s)", filename)
	}

	mappackInMemoryArchive.Zip = reader

	for _, file := range reader.File {
		fd, err := file.Open()

		if err != nil {
			mappackInMemoryArchive.Close()
			return nil, errors.Wrapf(err, "Could not open file in archive (%s)", file.Name)
		}

		mappackInMemoryArchive.Files[file.Name] = fd
	}

	return mappackInMemoryArchive, nil
}

func (m *MappackInMemoryArchive) Open(name string) ([]byte, error) {
	if file, hasFile := m.Files[name]; hasFile {
		return ioutil.ReadAll(file)
	}

	return nil, errors.New(fmt.Sprintf("File %s not found", name))
}

func (m *MappackInMemoryArchive) Has(name string) bool {
	_, hasFile := m.Files[name]
	return hasFile
}

// MapContainer decodes the track of the pack, whatever its format
func (m *MappackInMemoryArchive) MapContainer() (*mapcontainer.MapContainer, error) {
	for _, name := range []string{TrackJSON, TrackText, TrackBinary} {
		if !m.Has(name) {
			continue
		}

		data, err := m.Open(name)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not read %s", name)
		}

		return Decode(name, data)
	}

	return nil, errors.Errorf("Pack holds none of %s, %s, %s", TrackJSON, TrackText, TrackBinary)
}

func (m *MappackInMemoryArchive) Close() {
	for _, fd := range m.Files {
		fd.Close()
	}

	if m.Zip != nil {
		m.Zip.Close()
	}
}

// Decode picks the track format from the extension of name
func Decode(name string, data []byte) (*mapcontainer.MapContainer, error) {
	var (
		m   *mapcontainer.MapContainer
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		m, err = mapcontainer.Parse(data)
	case ".txt":
		m, err = mapcontainer.ParseText(bytes.NewReader(data))
	case ".bin":
		m, err = mapcontainer.ReadEdgeData(bytes.NewReader(data))
	default:
		return nil, errors.Errorf("Unknown track format (%s)", name)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "Could not decode %s", name)
	}

	if m.Meta.Name == "" {
		m.Meta.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	return m, nil
}

// Load reads a track file, or the track of a zipped pack
func Load(filename string) (*mapcontainer.MapContainer, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".zip" {
		pack, err := UnzipAndGetHandles(filename)
		if err != nil {
			return nil, err
		}
		defer pack.Close()

		return pack.MapContainer()
	}

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read track (%s)", filename)
	}

	return Decode(filename, data)
}

// Pack writes m as the track.json of a new pack, with extra files alongside
func Pack(filename string, m *mapcontainer.MapContainer, extra map[string][]byte) error {
	data, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "Could not encode track")
	}

	out, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create pack (%s)", filename)
	}
	defer out.Close()

	w := zip.NewWriter(out)

	files := map[string][]byte{TrackJSON: data}
	for name, content := range extra {
		files[name] = content
	}

	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			return errors.Wrapf(err, "Could not add %s", name)
		}

		if _, err := f.Write(content); err != nil {
			return errors.Wrapf(err, "Could not write %s", name)
		}
	}

	return w.Close()
}
