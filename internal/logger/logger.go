package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// An Options holds the logger parameters.
type Options struct {
	// Level is the logrus level name (debug, info, warn...).
	Level string
	// Filename is the rotated log file. Empty means stderr.
	Filename string
	// Quiet discards stdout & stderr output, only the file receives entries.
	Quiet bool
}

// New returns a new well configured logger.
func New(opts Options) (*logrus.Logger, error) {
	formatter := new(logFormatter)

	log := logrus.New()
	log.SetFormatter(formatter)
	log.SetOutput(os.Stderr)

	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse log level")
		}
		log.SetLevel(level)
	}

	if opts.Filename == "" {
		return log, nil
	}

	if opts.Quiet {
		log.SetOutput(io.Discard) // stdout & stderr to /dev/null
	}
	log.Hooks.Add(&fileHook{
		rotate: &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    20, // megabytes
			MaxBackups: 2,
			MaxAge:     10, //days
		},
		formatter: formatter,
	})

	return log, nil
}

// MustFile returns a quiet debug logger that writes in the given file.
func MustFile(filename string) *logrus.Logger {
	l, err := New(Options{Level: "debug", Filename: filename, Quiet: true})
	if err != nil {
		panic(err)
	}
	return l
}

////////////////////
//                //
// File hook      //
//                //
////////////////////

type fileHook struct {
	sync.Mutex
	rotate    io.Writer
	formatter logrus.Formatter
}

// Fire opens the file, writes to the file and closes the file.
// Whichever user is running the function needs write permissions to the file or directory if the file does not yet exist.
func (hook *fileHook) Fire(entry *logrus.Entry) error {
	hook.Lock()
	defer hook.Unlock()

	// use our formatter instead of entry.String()
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		log.Println("failed to generate string for entry:", err)
		return err
	}

	_, err = hook.rotate.Write(msg)
	return err
}

// Levels returns configured log levels.
func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

////////////////////
//                //
// Log formatter  //
//                //
////////////////////

type logFormatter struct{}

// Format implements Logrus formatter.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fields := ""
	if len(entry.Data) > 0 {
		fs := []string{}
		for k, v := range entry.Data {
			fs = append(fs, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(fs)
		fields = fmt.Sprintf(" (%s)", strings.Join(fs, ", "))
	}

	t := entry.Time
	if t.IsZero() {
		t = time.Now()
	}

	data := fmt.Sprintf("[%s] %+5s: %s%s\n",
		t.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
		fields,
	)
	return []byte(data), nil
}
