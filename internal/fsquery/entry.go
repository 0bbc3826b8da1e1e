// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fsquery

import (
	"encoding/json"
	"os"
	"time"
)

// DirectoryEntry describes one child of a listed directory.
type DirectoryEntry struct {
	Name         string
	Path         string
	AbsolutePath string
	Size         int64
	IsDir        bool
	ModTime      time.Time
	// Mode is the ls -l style permission string, e.g. "drwxr-xr-x".
	Mode string
	UID  uint32
	GID  uint32
}

type directoryEntryJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
	Size     int64  `json:"size"`
	IsDir    bool   `json:"is_dir"`
	ModTime  string `json:"mod_time"`
	Mode     string `json:"mode"`
	UID      uint32 `json:"uid"`
	GID      uint32 `json:"gid"`
}

// MarshalJSON renders the entry with a formatted modification time.
func (e DirectoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(directoryEntryJSON{
		Name:     e.Name,
		Path:     e.Path,
		FullPath: e.AbsolutePath,
		Size:     e.Size,
		IsDir:    e.IsDir,
		ModTime:  formatTimestamp(e.ModTime),
		Mode:     e.Mode,
		UID:      e.UID,
		GID:      e.GID,
	})
}

// ModeString renders mode the way ls -l does: a file type character followed
// by three rwx triplets with setuid, setgid and sticky folded in.
func ModeString(mode os.FileMode) string {
	buf := [10]byte{}
	switch {
	case mode&os.ModeDir != 0:
		buf[0] = 'd'
	case mode&os.ModeSymlink != 0:
		buf[0] = 'l'
	case mode&os.ModeNamedPipe != 0:
		buf[0] = 'p'
	case mode&os.ModeSocket != 0:
		buf[0] = 's'
	case mode&os.ModeCharDevice != 0:
		buf[0] = 'c'
	case mode&os.ModeDevice != 0:
		buf[0] = 'b'
	default:
		buf[0] = '-'
	}

	const rwx = "rwxrwxrwx"
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			buf[i+1] = rwx[i]
		} else {
			buf[i+1] = '-'
		}
	}

	special := func(idx int, set bool, on, off byte) {
		if !set {
			return
		}
		if buf[idx] == 'x' {
			buf[idx] = on
		} else {
			buf[idx] = off
		}
	}
	special(3, mode&os.ModeSetuid != 0, 's', 'S')
	special(6, mode&os.ModeSetgid != 0, 's', 'S')
	special(9, mode&os.ModeSticky != 0, 't', 'T')

	return string(buf[:])
}
