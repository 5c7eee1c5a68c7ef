// Command heapcli is an interactive driver for the heap allocator: a
// numbered menu over initialization, the allocation family, the typed
// writer, the heap dump, the strategy benchmark and defragmentation.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flier/goheap/pkg/heap"
	"github.com/flier/goheap/pkg/xerrors"
	"github.com/flier/goheap/pkg/xunsafe"
)

func main() {
	in := bufio.NewScanner(os.Stdin)
	h := new(heap.Heap)

	for processMenu(in, h) {
	}
}

func processMenu(in *bufio.Scanner, h *heap.Heap) bool {
	fmt.Print("1. Size of heap to initialize\n" +
		"2. Call one of functions\n" +
		"3. Writing a value\n" +
		"4. Output of the current heap\n" +
		"5. Research\n" +
		"6. Defragmentation\n" +
		"7. Exit\n")

	var err error

	switch readInt(in, "") {
	case 1:
		if err = h.Init(readInt(in, "Enter size:")); err == nil {
			fmt.Println("Inited")
		}

	case 2:
		err = processFunction(in, h)

	case 3:
		err = writeValue(in, h)

	case 4:
		err = h.Dump(os.Stdout)

	case 5:
		percent := readInt(in, "Enter percent of free blocks")
		for percent < 5 || percent > 95 {
			percent = readInt(in, "try again")
		}

		var scan, onlyFree time.Duration
		if scan, onlyFree, err = heap.Research(percent); err == nil {
			fmt.Printf("Time with common funcs : \t%v\n", scan)
			fmt.Printf("Time with vector of free blocks : \t%v\n", onlyFree)
		}

	case 6:
		if err = h.Defragment(); err == nil {
			fmt.Println("Defragmented")
		}

	case 7:
		return false

	default:
		fmt.Println("try again...")
	}

	if err != nil {
		if se, ok := xerrors.AsA[*heap.SizeError](err); ok {
			fmt.Printf("Error: %d bytes is too small, need at least %d\n", se.Size, se.Min)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
	}

	return true
}

func processFunction(in *bufio.Scanner, h *heap.Heap) error {
	fmt.Print("Choose the function to call\n" +
		"1. malloc\n" +
		"2. calloc\n" +
		"3. realloc\n" +
		"4. free\n")

	ch := readInt(in, "")
	for ch < 1 || ch > 4 {
		ch = readInt(in, "")
	}

	switch ch {
	case 1:
		fmt.Printf("%p\n", h.Malloc(readInt(in, "Enter size")))

	case 2:
		size := readInt(in, "Enter size")
		num := readInt(in, "Enter num")
		fmt.Printf("%p\n", h.Calloc(num, size))

	case 3:
		size := readInt(in, "Enter size")
		ptr := readAddr(in)
		p, err := h.Realloc(ptr, size)
		if err != nil {
			return err
		}
		fmt.Printf("%p\n", p)

	default:
		return h.Free(readAddr(in))
	}

	return nil
}

func writeValue(in *bufio.Scanner, h *heap.Heap) error {
	ptr := readAddr(in)

	fmt.Print("Enter type\n" +
		"1. char\n" +
		"2. int\n" +
		"3. double\n")

	ch := readInt(in, "")
	for ch < 1 || ch > 3 {
		ch = readInt(in, "")
	}
	kind := heap.Kind(ch - 1)

	n := readInt(in, "Enter number of elements")
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, readFloat(in, fmt.Sprintf("Enter %d element:", i+1)))
	}

	return h.Write(ptr, kind, values)
}

func readLine(in *bufio.Scanner, prompt string) string {
	if prompt != "" {
		fmt.Println(prompt)
	}

	if !in.Scan() {
		os.Exit(0)
	}

	return strings.TrimSpace(in.Text())
}

func readInt(in *bufio.Scanner, prompt string) int {
	for {
		if n, err := strconv.Atoi(readLine(in, prompt)); err == nil {
			return n
		}
		prompt = "try again"
	}
}

func readFloat(in *bufio.Scanner, prompt string) float64 {
	for {
		if v, err := strconv.ParseFloat(readLine(in, prompt), 64); err == nil {
			return v
		}
		prompt = "try again"
	}
}

func readAddr(in *bufio.Scanner) *byte {
	for {
		s := readLine(in, "Enter address")
		if v, err := strconv.ParseUint(s, 0, 64); err == nil {
			return xunsafe.Addr[byte](v).AssertValid()
		}
	}
}
