package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jmehdipour/churnctl/internal/model"
)

// WriteTable prints the monthly metrics as an aligned table.
func WriteTable(w io.Writer, rows []model.MonthlyRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(monthlyHeader, "\t")+"\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", r.Month, r.Created, r.Canceled, r.Active, formatRate(r.ChurnRate))
	}
	return tw.Flush()
}
