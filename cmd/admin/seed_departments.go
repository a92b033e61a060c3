package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Trazabilidad-api/internal/infrastructure/postgres"
)

var (
	seedFile    string
	seedCharset string
)

var seedDepartmentsCmd = &cobra.Command{
	Use:   "seed-departments [NOMBRE...]",
	Short: "Crea reparti al final de la lista, en el orden dado",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if seedFile != "" {
			fromFile, err := readDepartmentNames(seedFile, seedCharset)
			if err != nil {
				return err
			}
			names = append(names, fromFile...)
		}
		if len(names) == 0 {
			return fmt.Errorf("indique al menos un reparto o --file")
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := usecase.NewDepartmentUseCase(postgres.NewDepartmentRepository(pool), log)
		for _, name := range names {
			dept, err := uc.AddDepartment(ctx, dto.CreateDepartmentRequest{Name: name})
			if err != nil {
				return fmt.Errorf("crear reparto %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", dept.Position, dept.ID, dept.Name)
		}
		return nil
	},
}

func init() {
	seedDepartmentsCmd.Flags().StringVar(&seedFile, "file", "", "archivo con un reparto por línea")
	seedDepartmentsCmd.Flags().StringVar(&seedCharset, "charset", "utf-8", "codificación del archivo: utf-8 o latin1")
}

// readDepartmentNames lee un nombre por línea; ignora líneas vacías y comentarios (#).
func readDepartmentNames(path, charset string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return parseDepartmentNames(f, charset)
}

func parseDepartmentNames(r io.Reader, charset string) ([]string, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", charset)
	}

	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("leer reparti: %w", err)
	}
	return names, nil
}
