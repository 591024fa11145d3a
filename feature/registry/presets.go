package registry

import (
	"errors"
	"fmt"
	"strings"

	"sheet-sync/core/reconcile"
)

// ErrUnknownPreset is wrapped by ByName for unknown names.
var ErrUnknownPreset = errors.New("unknown preset")

// Worksheet names of the agent registry workbooks.
const (
	// SheetDB is the source-of-truth sheet maintained by the back office.
	SheetDB = "БД"
	// SheetSummary is the consolidated mirror sheet.
	SheetSummary = "СВОДНАЯ"
	// SheetTerminals is the per-terminal address sheet.
	SheetTerminals = "терминалы"
	// SheetHandover is the default sheet of the MTS handover workbook.
	SheetHandover = "Лист1"
)

// Column headers shared by the presets.
const (
	ColLegalEntity     = "ЮЛ"
	ColMTSID           = "МТС ID"
	ColMTSIDCompact    = "МТСID" // legacy header in some БД exports
	ColTerminalID      = "Terminal ID (Столото)"
	ColAgentID         = "Агент ID (Столото)"
	ColGUID            = "GUID"
	ColOwner           = "Ответственный ССПС"
	ColRegion          = "Регион"
	ColCity            = "Город"
	ColStreet          = "Улица"
	ColHouse           = "Дом"
	ColComments        = "Комментарии"
	ColCert            = "Добавлен сертификат"
	ColCertMTS         = "Добавлен сертификат (МТС)"
	ColCommentsMTS     = "Комментарии (МТС)"
	ColCommentsStoloto = "Комментарии (Столото)"
	ColTicketsSold     = "Билеты продаются"
	ColTerminalRanges  = "Терминалы (Столото)"
)

// Preset is one named reconciliation profile. Each historical one-off
// sync script maps onto exactly one preset; the engine underneath is
// shared.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// SourceSheet is read, TargetSheet is written.
	SourceSheet string `json:"source_sheet"`
	TargetSheet string `json:"target_sheet"`

	// SingleFile runs both sheets inside one workbook at one cloud path.
	SingleFile bool `json:"single_file,omitempty"`

	// CreateTarget creates the target sheet when the workbook lacks it.
	CreateTarget bool `json:"create_target,omitempty"`

	// EnsureTarget lists headers appended to the target sheet when
	// missing, in this order, styled like the last existing header.
	EnsureTarget []string `json:"ensure_target,omitempty"`

	// StyleTemplateRow is the row whose look inserted rows copy.
	// Zero disables the copy.
	StyleTemplateRow int `json:"style_template_row,omitempty"`

	// BoolFormat lists target columns that get the blank/1/0 fill rules.
	BoolFormat []string `json:"bool_format,omitempty"`

	Rules reconcile.Rules `json:"rules"`
}

// registryColumns are the base columns the БД sheet owns in the summary.
func registryColumns() []reconcile.Column {
	return []reconcile.Column{
		{Name: ColLegalEntity, Kind: reconcile.KindText},
		{Name: ColMTSID, Kind: reconcile.KindID, SourceAliases: []string{ColMTSIDCompact}},
		{Name: ColTerminalID, Kind: reconcile.KindText},
		{Name: ColAgentID, Kind: reconcile.KindText},
		{Name: ColGUID, Kind: reconcile.KindText},
		{Name: ColOwner, Kind: reconcile.KindText},
	}
}

// All returns every preset in a stable order.
func All() []Preset {
	return []Preset{
		{
			Name:        "summary",
			Description: "БД → СВОДНАЯ across two workbooks: registry columns plus compressed terminal ranges; vanished agents are cleared",
			SourceSheet: SheetDB,
			TargetSheet: SheetSummary,
			EnsureTarget: []string{
				ColTerminalRanges,
			},
			Rules: reconcile.Rules{
				Key:          ColAgentID,
				HeaderRow:    1,
				DataStartRow: 2,
				Columns: append(registryColumns(), reconcile.Column{
					Name:   ColTerminalRanges,
					Kind:   reconcile.KindRanges,
					Source: ColTerminalID,
				}),
				TargetOnly: reconcile.TargetOnlyClear,
				Insert:     reconcile.InsertFirstEmpty,
			},
		},
		{
			Name:             "workbook",
			Description:      "БД → СВОДНАЯ inside a single workbook; stray keyless residue is cleared and inserts reuse cleared rows",
			SourceSheet:      SheetDB,
			TargetSheet:      SheetSummary,
			SingleFile:       true,
			StyleTemplateRow: 2,
			Rules: reconcile.Rules{
				Key:          ColAgentID,
				HeaderRow:    1,
				DataStartRow: 2,
				Columns:      registryColumns(),
				TargetOnly:   reconcile.TargetOnlyClear,
				Insert:       reconcile.InsertFirstEmpty,
				ClearStray:   true,
			},
		},
		{
			Name:         "terminals",
			Description:  "БД → терминалы: terminal addresses plus the certificate flag derived from БД comments; reviewer columns stay untouched",
			SourceSheet:  SheetDB,
			TargetSheet:  SheetTerminals,
			CreateTarget: true,
			EnsureTarget: []string{
				ColLegalEntity,
				ColMTSID,
				ColTerminalID,
				ColRegion,
				ColCity,
				ColStreet,
				ColHouse,
				ColAgentID,
				ColCert,
				ColCertMTS,
				ColComments,
				ColCommentsMTS,
				ColCommentsStoloto,
			},
			StyleTemplateRow: 2,
			BoolFormat:       []string{ColCert, ColCertMTS},
			Rules: reconcile.Rules{
				Key:          ColAgentID,
				HeaderRow:    1,
				DataStartRow: 2,
				Columns: []reconcile.Column{
					{Name: ColLegalEntity, Kind: reconcile.KindText, Optional: true},
					{Name: ColMTSID, Kind: reconcile.KindID, SourceAliases: []string{ColMTSIDCompact}, Optional: true},
					{Name: ColTerminalID, Kind: reconcile.KindText},
					{Name: ColRegion, Kind: reconcile.KindText, Optional: true},
					{Name: ColCity, Kind: reconcile.KindText, Optional: true},
					{Name: ColStreet, Kind: reconcile.KindText, Optional: true},
					{Name: ColHouse, Kind: reconcile.KindText, Optional: true},
					{Name: ColAgentID, Kind: reconcile.KindText},
					{Name: ColCert, Kind: reconcile.KindCertFlag, Source: ColComments, Optional: true},
					{Name: ColCertMTS, Kind: reconcile.KindGuarded, InsertValue: 0},
					{Name: ColComments, Kind: reconcile.KindGuarded},
					{Name: ColCommentsMTS, Kind: reconcile.KindGuarded, InsertValue: ""},
					{Name: ColCommentsStoloto, Kind: reconcile.KindGuarded, InsertValue: ""},
				},
				TargetOnly: reconcile.TargetOnlyKeep,
				Insert:     reconcile.InsertAppend,
			},
		},
		{
			Name:         "certflag",
			Description:  "Лист1 → СВОДНАЯ: pull the MTS certificate flag back into the summary, matched rows only",
			SourceSheet:  SheetHandover,
			TargetSheet:  SheetSummary,
			EnsureTarget: []string{ColCertMTS},
			BoolFormat:   []string{ColCertMTS},
			Rules: reconcile.Rules{
				Key:          ColLegalEntity,
				HeaderRow:    1,
				DataStartRow: 2,
				Columns: []reconcile.Column{
					{Name: ColCertMTS, Kind: reconcile.KindBool, Optional: true},
				},
				MatchedOnly: true,
			},
		},
		{
			Name:         "flags",
			Description:  "СВОДНАЯ → Лист1: hand the certificate and ticket-sales flags over to the MTS workbook, matched rows only",
			SourceSheet:  SheetSummary,
			TargetSheet:  SheetHandover,
			EnsureTarget: []string{ColCert, ColTicketsSold},
			BoolFormat:   []string{ColCert, ColTicketsSold},
			Rules: reconcile.Rules{
				Key:          ColLegalEntity,
				HeaderRow:    1,
				DataStartRow: 2,
				Columns: []reconcile.Column{
					{Name: ColCert, Kind: reconcile.KindBool},
					{Name: ColTicketsSold, Kind: reconcile.KindBool},
				},
				MatchedOnly: true,
			},
		},
	}
}

// Names lists the preset names in the order of All.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	return names
}

// ByName finds a preset. The error names every known preset.
func ByName(name string) (Preset, error) {
	for _, p := range All() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w %q (known presets: %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
}
