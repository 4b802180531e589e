//
// libdma is a client that interacts with the dma API for managing records.
//

// Create client
//
//	client, err := libdma.NewDefaultClient("https://dma.nas.lan/api")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Identify the user
//
//	// From a Google sign-in credential (signature is not verified).
//	identity, err := libdma.DecodeCredential(credential)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Or with signature, issuer and audience verification.
//	identity, err = libdma.VerifyCredential(context.Background(), credential, googleClientID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Manage records
//
//	record, err := client.Insert("hello", identity.Name)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.Update(record.ID, "world")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	records, err := client.Records()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.Delete(record.ID)
//	if err != nil {
//		log.Fatal(err)
//	}
package libdma
