package orderControllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// ExportOrdersHandler dumps all orders (optionally filtered by status) into
// an xlsx download for the back office.
func ExportOrdersHandler(s *store.Stores, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, _, err := s.Orders.List(c.Request.Context(), store.OrderFilter{
			Status: c.Query("status"),
		})
		if err != nil {
			serverError(c, log, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			serverError(c, log, err)
			return
		}

		headers := []string{
			"OrderNumber", "UserID", "Status", "PaymentStatus", "PaymentMethod",
			"Items", "Subtotal", "Discount", "ShippingCost", "Tax", "Total",
			"TrackingNumber", "City", "Province", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.PaymentMethod)

			items := ""
			for i, it := range o.Items {
				if i > 0 {
					items += "; "
				}
				items += fmt.Sprintf("%dx %s (%s/%s)", it.Quantity, it.Name, it.Color, it.Size)
			}
			row.AddCell().SetValue(items)

			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.Discount)
			row.AddCell().SetValue(o.ShippingCost)
			row.AddCell().SetValue(o.Tax)
			row.AddCell().SetValue(o.Total)
			row.AddCell().SetValue(o.TrackingNumber)
			row.AddCell().SetValue(o.ShippingAddress.City)
			row.AddCell().SetValue(o.ShippingAddress.Province)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.Error("failed to write orders export", zap.Error(err))
		}
	}
}
