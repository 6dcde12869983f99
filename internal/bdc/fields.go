package bdc

import (
	"strings"

	"github.com/bdc-tools/bdc-generator/internal/devis"
)

// FieldValues is the projection of a parsed devis onto the named AcroForm
// fields of the purchase order template. Text fields and checkboxes are
// kept apart because the template uses different widget types for them.
type FieldValues struct {
	Text     map[string]string
	Checkbox map[string]bool
}

// BuildFieldValues maps a sanitized record onto the bdc_* form fields.
// Empty record attributes produce no entry at all: the template's fields
// stay blank rather than being overwritten with empty strings.
func BuildFieldValues(rec devis.Record) FieldValues {
	v := FieldValues{
		Text:     make(map[string]string),
		Checkbox: make(map[string]bool),
	}

	setText := func(field, value string) {
		if value != "" {
			v.Text[field] = value
		}
	}
	setCheckbox := func(field string, checked bool) {
		if checked {
			v.Checkbox[field] = true
		}
	}

	setText("bdc_devis_annee_mois", rec.YearMonth)
	setText("bdc_devis_num", rec.Number)
	setText("bdc_ref_affaire", rec.RefAffaire)
	setText("bdc_client_nom", rec.Client.Name)
	setText("bdc_client_adresse", rec.Client.Address)
	setText("bdc_client_cp", rec.Client.PostalCode)
	setText("bdc_client_ville", rec.Client.City)
	setText("bdc_commercial_nom", rec.Commercial.Name)

	setText("bdc_esc_gamme", rec.Options.Gamme)
	setText("bdc_esc_essence", rec.Options.Essence)
	setText("bdc_esc_finition_marches", rec.Options.FinitionMarches)
	setText("bdc_esc_finition_contremarche", rec.Options.FinitionContremarche)
	setText("bdc_esc_finition_structure", rec.Options.FinitionStructure)
	setText("bdc_esc_finition_mains_courante", rec.Options.MainCourante)
	setText("bdc_esc_finition_rampe", rec.Options.FinitionRampe)
	setText("bdc_esc_tete_de_poteau", rec.Options.TeteDePoteau)

	setCheckbox("bdc_chk_avec-contre-marches", rec.Options.Contremarche == devis.ContremarcheWith)
	setCheckbox("bdc_chk_avec-sans-marches", rec.Options.Contremarche == devis.ContremarcheWithout)

	setCheckbox("bdc_chk_cremaillere", rec.Options.Structure == devis.StructureCremaillere)
	setCheckbox("bdc_chk_limon", rec.Options.Structure == devis.StructureLimon)
	setCheckbox("bdc_chk_limon_decoupe", rec.Options.Structure == devis.StructureLimonDecoupe)
	setCheckbox("bdc_chk_limon_centrale", rec.Options.Structure == devis.StructureLimonCentral)

	setText("bdc_montant_fourniture_ht", devis.FormatAmountFR(rec.Fourniture))
	setText("bdc_montant_pose_ht", devis.FormatAmountFR(rec.Pose.Amount))

	// Delivery block: the installer receives the goods when installation was
	// sold, otherwise the client does. Autoliquidation only applies when the
	// vendor installs.
	setCheckbox("bdc_chk_livraison_poseur", rec.Pose.Sold)
	setCheckbox("bdc_chk_livraison_client", !rec.Pose.Sold)
	setCheckbox("bdc_chk_autoliquidation", rec.Pose.Sold)
	if rec.Pose.Sold {
		setText("bdc_livraison_bloc", deliveryBlock(rec.Client))
	}

	return v
}

// deliveryBlock renders the client address as the delivery destination.
func deliveryBlock(c devis.Client) string {
	var b strings.Builder
	b.WriteString(c.Address)
	if c.PostalCode != "" && c.City != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.PostalCode + " " + c.City)
	}
	return strings.TrimSpace(b.String())
}
