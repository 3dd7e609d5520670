package imgrw

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/imgrw/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// SourceExtensions lists the file extensions picked up when converting a directory.
var SourceExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".svg"}

// Ops describes the source and the destination of an Execute run.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Stderr receives the status messages. Nil means os.Stderr.
	Stderr io.Writer
}

// result holds the relevant information about a conversion.
type result struct {
	path string
	dst  string
	err  error
}

// Execute converts a single file, a URL, a stdin pipe or a whole directory tree.
// Directories are processed by a pool of workers; every failing file is reported
// and the joined errors are returned once the walk completes.
func (p *Processor) Execute(op *Ops) error {
	if op.Stderr == nil {
		op.Stderr = os.Stderr
	}
	if p.Spinner == nil {
		defaultMsg := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ IMGRW", utils.StatusMessage),
			utils.DecorateText("⇢ converting image...", utils.DefaultMessage),
		)
		p.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80)
	}

	// Capture CTRL-C signal and restore back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	finished := make(chan struct{})
	defer func() {
		signal.Stop(signalChan)
		close(finished)
	}()
	go func() {
		select {
		case <-signalChan:
			p.Spinner.RestoreCursor()
			os.Exit(1)
		case <-finished:
		}
	}()

	src := op.Src
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			err = fmt.Errorf("failed to load the source image: %w", err)
			op.printOpStatus(src, err)
			return err
		}
		defer os.Remove(f.Name())
		f.Close()
		src = f.Name()
	}

	var (
		fs  os.FileInfo
		err error
	)
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		err = fmt.Errorf("failed to load the source image: %w", err)
		op.printOpStatus(src, err)
		return err
	}

	now := time.Now()
	p.Spinner.Start()
	if fs.Mode().IsDir() {
		err = p.executeDir(op, src)
	} else {
		err = op.process(p, src, op.Dst)
	}
	p.stopSpinner(err)
	if !fs.Mode().IsDir() {
		op.printOpStatus(op.Dst, err)
	}
	if err == nil {
		fmt.Fprintf(op.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
	return err
}

func (p *Processor) executeDir(op *Ops, src string) error {
	if op.Dst == op.PipeName {
		err := fmt.Errorf("`%s` cannot be used as destination for a directory source", op.PipeName)
		op.printOpStatus(op.Dst, err)
		return err
	}
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		err = fmt.Errorf("unable to create the destination directory: %w", err)
		op.printOpStatus(op.Dst, err)
		return err
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, src, SourceExtensions)
	names := &outputNames{taken: make(map[string]string)}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, src, op.Dst, names, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var errs []error
	for res := range ch {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
		}
		op.printOpStatus(res.dst, res.err)
	}
	if err := <-errc; err != nil {
		op.printOpStatus(src, err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// errOutputCollision is reported when two sources map to the same output file.
var errOutputCollision = errors.New("output file already claimed by another source")

// outputNames tracks the destination files claimed during a directory run.
type outputNames struct {
	mu    sync.Mutex
	taken map[string]string
}

func (o *outputNames) claim(dst, src string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.taken[dst]; ok {
		return fmt.Errorf("%w: %s (%s)", errOutputCollision, dst, prev)
	}
	o.taken[dst] = src
	return nil
}

// outputPath maps a source below root to the same relative location below dest,
// swapping the extension for ext.
func outputPath(root, dest, path, ext string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(dest, stem+"."+ext), nil
}

// consumer reads the path names from the paths channel and converts each source image.
// The directory layout below root is mirrored below dest.
func (op *Ops) consumer(
	p *Processor,
	root, dest string,
	names *outputNames,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		dst, err := outputPath(root, dest, src, p.Extension())
		if err == nil {
			err = names.claim(dst, src)
		}
		if err == nil {
			err = os.MkdirAll(filepath.Dir(dst), 0755)
		}
		if err == nil {
			err = op.process(p, src, dst)
		}

		select {
		case <-done:
			return
		case res <- result{path: src, dst: dst, err: err}:
		}
	}
}

// process converts one file. A partially written destination is removed on failure.
func (op *Ops) process(p *Processor, in, out string) (err error) {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(f.Name())
			}
		}
	}()

	return p.Process(src, dst)
}

// stopSpinner stops the progress indicator with a message reflecting err.
func (p *Processor) stopSpinner(err error) {
	if err != nil {
		p.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ IMGRW", utils.StatusMessage),
			utils.DecorateText("converting image failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		p.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ IMGRW", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText("the image has been converted successfully ✔", utils.SuccessMessage),
		)
	}
	p.Spinner.Stop()
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		src = f
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeReader(src)
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeReader(src)
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
		dst = f
	}
	return src, dst, nil
}

func closeReader(r io.Reader) {
	if f, ok := r.(*os.File); ok && f != os.Stdin {
		f.Close()
	}
}

// printOpStatus displays the relevant information about the conversion.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(op.Stderr, "%s%s",
			utils.DecorateText("\nError converting the image: "+fname, utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(op.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
