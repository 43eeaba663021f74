package analytics

import (
	"bufio"
	"io"
	"strings"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// CSVHeader encabezado del exporte de movimientos.
const CSVHeader = "Fecha,Producto,Desde,Hasta,Peso,Lote"

// WriteMovementsCSV escribe una fila por movimiento. Los campos de texto van
// siempre entre comillas; fecha y peso no.
func WriteMovementsCSV(w io.Writer, movements []entity.Movement) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}
	for _, m := range movements {
		p := m.ProductData
		fields := []string{
			ShortDate(m.Timestamp),
			quote(p.DisplayName(m.ProductID)),
			quote(m.FromLocation().Label()),
			quote(m.ToLocation().Label()),
			csvWeight(p.Weight),
			quote(orNA(p.Lot)),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvWeight(w entity.Weight) string {
	if !w.Valid || w.Value.IsZero() {
		return entity.PlaceholderText
	}
	return w.Value.String()
}
