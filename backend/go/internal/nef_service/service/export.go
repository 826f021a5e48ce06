package service

import (
	"context"
	"fmt"
	"io"

	"NEF_Emulator/backend/go/internal/nef_service/store"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "UEs"

var exportHeader = []interface{}{
	"supi", "name", "description", "ext_identifier", "gNB_id", "Cell_id", "path_id",
	"ip_address_v4", "ip_address_v6", "mac", "mcc", "mnc", "dnn", "speed",
	"latitude", "longitude", "owner_id",
}

// ExportUEs 把调用者可见的全部 UE 写成一个 xlsx 工作簿。
func (s *Service) ExportUEs(ctx context.Context, caller Caller, w io.Writer) error {
	ues, err := s.store.ListUEs(ctx, ownerFilter(caller), store.Page{})
	if err != nil {
		return translate(err, nil, "list ues")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	for i, ue := range ues {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			ue.SUPI, ue.Name, ue.Description, ue.ExtIdentifier, ue.GNBID, ue.CellID, ue.PathID,
			ue.IPAddressV4, ue.IPAddressV6, ue.MAC, ue.MCC, ue.MNC, ue.DNN, string(ue.Speed),
			ue.Latitude, ue.Longitude, ue.OwnerID,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("冻结表头失败: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("写出工作簿失败: %w", err)
	}
	return nil
}
