package catalog

// VendorRazer is the USB vendor ID shared by every device in the table.
const VendorRazer = 0x1532

// Descriptor identifies a known device model on the HID bus.
//
// Wireless mice are composite devices: one product ID exposes several
// logical HID endpoints (input, control, vendor-specific). Vendor and
// product ID alone are therefore not enough to pick the control
// endpoint; InterfaceNumber and, where the platform reports them,
// UsagePage/Usage disambiguate.
type Descriptor struct {
	VendorID        uint16
	ProductID       uint16
	InterfaceNumber int
	UsagePage       uint16
	Usage           uint16
	DisplayName     string
}

// Table is a static, read-only set of device descriptors.
type Table []Descriptor

// deviceTable is the compiled-in catalog of supported devices.
//
// Each model appears twice: once for its wired (cable) product ID and
// once for the wireless dongle. The name is the same for both so a
// device keeps its identity when switching between cable and dongle.
var deviceTable = Table{
	{VendorRazer, 0x007A, 0, 0x000C, 0x0001, "Razer Viper Ultimate"},
	{VendorRazer, 0x007B, 0, 0x000C, 0x0001, "Razer Viper Ultimate"},
	{VendorRazer, 0x007C, 0, 0x000C, 0x0001, "Razer DeathAdder V2 Pro"},
	{VendorRazer, 0x007D, 0, 0x000C, 0x0001, "Razer DeathAdder V2 Pro"},
	{VendorRazer, 0x0086, 0, 0x000C, 0x0001, "Razer Basilisk Ultimate"},
	{VendorRazer, 0x0088, 0, 0x000C, 0x0001, "Razer Basilisk Ultimate"},
	{VendorRazer, 0x008F, 0, 0x000C, 0x0001, "Razer Naga Pro"},
	{VendorRazer, 0x0090, 0, 0x000C, 0x0001, "Razer Naga Pro"},
	{VendorRazer, 0x00A5, 0, 0x000C, 0x0001, "Razer Viper V2 Pro"},
	{VendorRazer, 0x00A6, 0, 0x000C, 0x0001, "Razer Viper V2 Pro"},
	{VendorRazer, 0x00B6, 0, 0x000C, 0x0001, "Razer DeathAdder V3 Pro"},
	{VendorRazer, 0x00B7, 0, 0x000C, 0x0001, "Razer DeathAdder V3 Pro"},
	{VendorRazer, 0x00C0, 0, 0x000C, 0x0001, "Razer Viper V3 Pro"},
	{VendorRazer, 0x00C1, 0, 0x000C, 0x0001, "Razer Viper V3 Pro"},
}

// Default returns the compiled-in device table.
func Default() Table {
	return deviceTable
}

// Lookup returns the descriptors matching a vendor/product ID pair.
// Composite devices can yield more than one row; the caller narrows
// the match using interface and usage metadata.
func (t Table) Lookup(vendorID, productID uint16) []Descriptor {
	var matches []Descriptor
	for _, d := range t {
		if d.VendorID == vendorID && d.ProductID == productID {
			matches = append(matches, d)
		}
	}
	return matches
}
